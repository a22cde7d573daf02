package nsn

// Table names a reference table.
type Table string

// Reference tables.
const (
	TableStock        Table = "stock"
	TableNames        Table = "names"
	TablePrices       Table = "prices"
	TableWeights      Table = "weights"
	TableDescriptions Table = "descriptions"
	TableAacs         Table = "aacs"
	TableFscs         Table = "fscs"
)

// AllTables lists every reference table in enrichment order.
var AllTables = []Table{
	TableStock, TableNames, TablePrices, TableWeights, TableDescriptions, TableAacs, TableFscs,
}

// Optional reports whether the table only feeds detail fields that list views can skip.
func (t Table) Optional() bool {
	return t == TableWeights || t == TableDescriptions
}

// IsValid checks that t is a known table.
func (t Table) IsValid() bool {
	for _, known := range AllTables {
		if t == known {
			return true
		}
	}
	return false
}

// Fragments bundles whatever rows the reference tables hold for one NIIN.
// A nil pointer (or empty Names) means the table had no row.
type Fragments struct {
	NIIN        string            `json:"niin"`
	Stock       *StockRecord      `json:"stock,omitempty"`
	Names       []NameEntry       `json:"names,omitempty"`
	Price       *PriceEntry       `json:"price,omitempty"`
	Weight      *WeightEntry      `json:"weight,omitempty"`
	Description *DescriptionEntry `json:"description,omitempty"`
	Aac         *AacEntry         `json:"aac,omitempty"`
	Fsc         *FscEntry         `json:"fsc,omitempty"`
}

// IsEmpty reports whether no table contributed a row.
func (f *Fragments) IsEmpty() bool {
	return f.Stock == nil && len(f.Names) == 0 && f.Price == nil && f.Weight == nil &&
		f.Description == nil && f.Aac == nil && f.Fsc == nil
}

// Absorb copies the rows present in other into f without overwriting rows f already has.
func (f *Fragments) Absorb(other Fragments) {
	if f.Stock == nil {
		f.Stock = other.Stock
	}
	if len(f.Names) == 0 {
		f.Names = other.Names
	}
	if f.Price == nil {
		f.Price = other.Price
	}
	if f.Weight == nil {
		f.Weight = other.Weight
	}
	if f.Description == nil {
		f.Description = other.Description
	}
	if f.Aac == nil {
		f.Aac = other.Aac
	}
	if f.Fsc == nil {
		f.Fsc = other.Fsc
	}
}

// Only returns a copy holding just the given table's rows.
func (f *Fragments) Only(t Table) Fragments {
	out := Fragments{NIIN: f.NIIN}
	switch t {
	case TableStock:
		out.Stock = f.Stock
	case TableNames:
		out.Names = f.Names
	case TablePrices:
		out.Price = f.Price
	case TableWeights:
		out.Weight = f.Weight
	case TableDescriptions:
		out.Description = f.Description
	case TableAacs:
		out.Aac = f.Aac
	case TableFscs:
		out.Fsc = f.Fsc
	}
	return out
}

// Batch maps NIIN to the fragments loaded for it.
type Batch map[string]Fragments

// Merge absorbs every entry of other into b.
func (b Batch) Merge(other Batch) {
	for niin, frag := range other {
		cur, ok := b[niin]
		if !ok {
			cur = Fragments{NIIN: niin}
		}
		cur.Absorb(frag)
		b[niin] = cur
	}
}
