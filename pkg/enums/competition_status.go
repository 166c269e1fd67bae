package enums

// CompetitionStatus is derived from the competition window and active flag,
// never stored.
type CompetitionStatus string

const (
	CompetitionStatusUpcoming CompetitionStatus = "upcoming"
	CompetitionStatusActive   CompetitionStatus = "active"
	CompetitionStatusEnded    CompetitionStatus = "ended"
)

// String implements fmt.Stringer.
func (c CompetitionStatus) String() string {
	return string(c)
}
