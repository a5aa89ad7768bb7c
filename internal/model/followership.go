package model

// TypeCode identifies a followership type
type TypeCode string

const (
	TypePragmatic  TypeCode = "PRAGMATIC"
	TypeExemplary  TypeCode = "EXEMPLARY"
	TypeAlienated  TypeCode = "ALIENATED"
	TypeConformist TypeCode = "CONFORMIST"
	TypePassive    TypeCode = "PASSIVE"
)

// FollowershipType is one of the five fixed Kelley categories with its display metadata
type FollowershipType struct {
	Code    TypeCode `json:"code" bson:"code"`
	Name    string   `json:"name" bson:"name"`       // Display name
	English string   `json:"english" bson:"english"` // English label
	Color   string   `json:"color" bson:"color"`     // Hex color token
}

var (
	Pragmatic  = FollowershipType{Code: TypePragmatic, Name: "실무형", English: "Pragmatic", Color: "#22c55e"}
	Exemplary  = FollowershipType{Code: TypeExemplary, Name: "주도형", English: "Exemplary", Color: "#3b82f6"}
	Alienated  = FollowershipType{Code: TypeAlienated, Name: "소외형", English: "Alienated", Color: "#374151"}
	Conformist = FollowershipType{Code: TypeConformist, Name: "순응형", English: "Conformist", Color: "#eab308"}
	Passive    = FollowershipType{Code: TypePassive, Name: "수동형", English: "Passive", Color: "#ef4444"}
)

// FollowershipTypes returns the full catalog in display order
func FollowershipTypes() []FollowershipType {
	return []FollowershipType{Pragmatic, Exemplary, Alienated, Conformist, Passive}
}

// TypeByCode looks up a catalog entry
func TypeByCode(code TypeCode) (FollowershipType, bool) {
	for _, t := range FollowershipTypes() {
		if t.Code == code {
			return t, true
		}
	}
	return FollowershipType{}, false
}
