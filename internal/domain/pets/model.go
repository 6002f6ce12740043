package pets

import "time"

// Species define las especies soportadas.
// @Enum dog, cat, other
type Species string

const (
	SpeciesDog   Species = "dog"
	SpeciesCat   Species = "cat"
	SpeciesOther Species = "other"
)

// Size agrupa a los perros por porte; lo usa la peluquería para tiempos y precios.
// @Enum small, medium, large, giant
type Size string

const (
	SizeSmall  Size = "small"
	SizeMedium Size = "medium"
	SizeLarge  Size = "large"
	SizeGiant  Size = "giant"
)

// Sex define el sexo de la mascota.
// @Enum male, female, unknown
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = "unknown"
)

// Pet es la ficha de una mascota de un cliente.
type Pet struct {
	ID         string
	CompanyID  string
	CustomerID string

	Name    string
	Species Species
	Breed   string
	Size    Size
	Sex     Sex

	BirthDate *time.Time
	WeightKg  *float64

	// Datos de peluquería.
	CoatType      string
	Temperament   string
	SpecialNeeds  string
	PreferredFood string
	Notes         string
	PhotoURL      string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func ParseSpecies(raw string) (Species, bool) {
	switch Species(raw) {
	case SpeciesDog, SpeciesCat, SpeciesOther:
		return Species(raw), true
	default:
		return "", false
	}
}

func ParseSize(raw string) (Size, bool) {
	switch Size(raw) {
	case "", SizeSmall, SizeMedium, SizeLarge, SizeGiant:
		return Size(raw), true
	default:
		return "", false
	}
}

func ParseSex(raw string) (Sex, bool) {
	switch Sex(raw) {
	case "":
		return SexUnknown, true
	case SexMale, SexFemale, SexUnknown:
		return Sex(raw), true
	default:
		return "", false
	}
}
