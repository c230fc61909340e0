package mannam

// Tally counts responses by status. When mannamID is set, rows of other
// mannams are skipped. Unknown statuses are ignored.
func Tally(mannamID string, responses []Response) Counts {
	var counts Counts
	for _, response := range responses {
		if mannamID != "" && response.MannamID != mannamID {
			continue
		}
		switch response.Status {
		case ResponseAvailable:
			counts.Available++
		case ResponseUnavailable:
			counts.Unavailable++
		case ResponseMaybe:
			counts.Maybe++
		}
	}
	return counts
}
