package convert

//go:generate go tool stringer -type=Family -trimprefix=Family -output=family_string.go

// Family groups strategies sharing a base contract.
type Family int

const (
	FamilySameType Family = iota
	FamilyPrimitive
	FamilyTemporal
	FamilyEnum
	FamilyDelegate
	FamilyCustom
)

// Priorities of the built-in families and delegates. Higher wins.
const (
	PrioritySameType    = 0
	PriorityBuiltin     = 3000
	PriorityDerived     = 4000
	PriorityRecorded    = 4500
	PriorityHandWritten = 5000
)
