package device

// BuildIndices builds the four lookup indices in a single pass over records.
// Entries sharing a key are appended in record order. Each call returns fresh
// maps; nothing is carried over between calls.
func BuildIndices(records []Record) Indices {
	ix := Indices{
		ByDevice: make(Index),
		ByModel:  make(Index),
		ByBrand:  make(Index),
		ByName:   make(Index),
	}

	for _, r := range records {
		ix.ByDevice[r.Device] = append(ix.ByDevice[r.Device], Entry{Brand: r.Brand, Name: r.Name, Model: r.Model})
		ix.ByModel[r.Model] = append(ix.ByModel[r.Model], Entry{Brand: r.Brand, Name: r.Name, Device: r.Device})
		ix.ByBrand[r.Brand] = append(ix.ByBrand[r.Brand], Entry{Device: r.Device, Name: r.Name, Model: r.Model})
		ix.ByName[r.Name] = append(ix.ByName[r.Name], Entry{Brand: r.Brand, Device: r.Device, Model: r.Model})
	}

	return ix
}
