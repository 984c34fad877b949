package domain

// Unit is a stock measurement unit. Quantities in different units are never converted.
type Unit string

const (
	UnitKilogram   Unit = "kg"
	UnitGram       Unit = "g"
	UnitLiter      Unit = "l"
	UnitMilliliter Unit = "ml"
	UnitPieces     Unit = "pcs"
	UnitTablespoon Unit = "tbsp"
	UnitTeaspoon   Unit = "tsp"
	UnitCup        Unit = "cup"
)

var Units = []Unit{
	UnitKilogram,
	UnitGram,
	UnitLiter,
	UnitMilliliter,
	UnitPieces,
	UnitTablespoon,
	UnitTeaspoon,
	UnitCup,
}

func (u Unit) Valid() bool {
	for _, known := range Units {
		if u == known {
			return true
		}
	}
	return false
}

func (u Unit) String() string {
	return string(u)
}
