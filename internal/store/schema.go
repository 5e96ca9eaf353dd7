package store

const schema = `
CREATE TABLE IF NOT EXISTS devices (
    position INTEGER PRIMARY KEY,
    brand TEXT NOT NULL,
    name TEXT NOT NULL,
    device TEXT NOT NULL,
    model TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    synced_at TEXT NOT NULL,
    record_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_devices_device ON devices(device);
CREATE INDEX IF NOT EXISTS idx_devices_model ON devices(model);
CREATE INDEX IF NOT EXISTS idx_devices_brand ON devices(brand);
CREATE INDEX IF NOT EXISTS idx_devices_name ON devices(name);
`
