// Package device holds the certified device record model and the lookup
// indices derived from it.
package device

// Record is one row of the certified devices feed.
type Record struct {
	Brand  string // retail branding
	Name   string // marketing name
	Device string // codename
	Model  string
}

// Entry is a Record with its index key removed. Exactly three of the four
// fields are populated depending on which index holds it.
type Entry struct {
	Brand  string `json:"brand,omitempty"`
	Name   string `json:"name,omitempty"`
	Device string `json:"device,omitempty"`
	Model  string `json:"model,omitempty"`
}

// Index maps a key to every entry sharing it, in feed order.
type Index map[string][]Entry

// Count returns the total number of entries across all keys.
func (idx Index) Count() int {
	n := 0
	for _, entries := range idx {
		n += len(entries)
	}
	return n
}

// Indices groups the four lookup indices built from one record set.
type Indices struct {
	ByDevice Index
	ByModel  Index
	ByBrand  Index
	ByName   Index
}

// Field identifies the record attribute an index is keyed on.
type Field string

const (
	FieldDevice Field = "device"
	FieldModel  Field = "model"
	FieldBrand  Field = "brand"
	FieldName   Field = "name"
)

// Fields lists the index keys in the order their files are written.
var Fields = []Field{FieldDevice, FieldModel, FieldBrand, FieldName}

// ParseField converts a user-supplied key name to a Field.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldDevice, FieldModel, FieldBrand, FieldName:
		return Field(s), true
	case "codename":
		return FieldDevice, true
	}
	return "", false
}

// Get returns the index keyed on f.
func (ix Indices) Get(f Field) Index {
	switch f {
	case FieldDevice:
		return ix.ByDevice
	case FieldModel:
		return ix.ByModel
	case FieldBrand:
		return ix.ByBrand
	case FieldName:
		return ix.ByName
	}
	return nil
}
