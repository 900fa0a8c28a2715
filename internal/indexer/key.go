package indexer

// ScheduleKey identifies a fee schedule row by jurisdiction.
type ScheduleKey struct {
	State  string
	County string
	City   string
}

// String joins the parts with no separator. This is the store key.
func (k ScheduleKey) String() string {
	return k.State + k.County + k.City
}

// Levels returns one lookup key per resolution level, most specific first:
// State+County+City, State+County, State. Keys repeat when County or City
// is empty.
func (k ScheduleKey) Levels() [3]string {
	return [3]string{
		k.State + k.County + k.City,
		k.State + k.County,
		k.State,
	}
}

// Candidates returns the distinct lookup keys from most to least specific.
// A level whose key equals the previous level's is dropped.
func (k ScheduleKey) Candidates() []string {
	levels := k.Levels()
	keys := make([]string, 0, len(levels))
	for i, key := range levels {
		if i > 0 && key == levels[i-1] {
			continue
		}
		keys = append(keys, key)
	}
	return keys
}
