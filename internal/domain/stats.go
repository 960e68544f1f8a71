package domain

// SportStats aggregates match counts for one sport.
type SportStats struct {
	Sport        string `json:"sport"`
	TotalMatches int    `json:"totalMatches"`
	Upcoming     int    `json:"upcoming"`
	Live         int    `json:"live"`
	Completed    int    `json:"completed"`
}

// StatsResponse is the payload returned by /api/stats.
type StatsResponse struct {
	StatsBySport []SportStats `json:"statsBySport"`
}

// NewStatsResponse counts matches per sport in first-seen order.
// Any status other than upcoming or live is counted as completed.
func NewStatsResponse(matches []Match) StatsResponse {
	index := make(map[string]int)
	stats := make([]SportStats, 0)
	for _, m := range matches {
		i, ok := index[m.Sport]
		if !ok {
			i = len(stats)
			index[m.Sport] = i
			stats = append(stats, SportStats{Sport: m.Sport})
		}
		s := &stats[i]
		s.TotalMatches++
		switch m.Status {
		case StatusUpcoming:
			s.Upcoming++
		case StatusLive:
			s.Live++
		default:
			s.Completed++
		}
	}
	return StatsResponse{StatsBySport: stats}
}
