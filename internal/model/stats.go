package model

// CampaignStats aggregates a lead set for reporting.
type CampaignStats struct {
	TotalLeads     int     `json:"total_leads"`
	Contacted      int     `json:"leads_contacted"`
	Responded      int     `json:"leads_responded"`
	Converted      int     `json:"leads_converted"`
	Unresponsive   int     `json:"leads_unresponsive"`
	HighPriority   int     `json:"high_priority"`
	MediumPriority int     `json:"medium_priority"`
	LowPriority    int     `json:"low_priority"`
	ResponseRate   float64 `json:"response_rate"`
}

// ComputeStats tallies campaign progress across leads. The response rate is
// responded+converted over everything that was ever contacted.
func ComputeStats(leads []Lead) CampaignStats {
	var s CampaignStats
	s.TotalLeads = len(leads)

	for _, l := range leads {
		switch l.Status {
		case StatusContacted:
			s.Contacted++
		case StatusResponded:
			s.Responded++
		case StatusConverted:
			s.Converted++
		case StatusUnresponsive:
			s.Unresponsive++
		}

		switch l.Priority {
		case PriorityHigh:
			s.HighPriority++
		case PriorityMedium:
			s.MediumPriority++
		case PriorityLow:
			s.LowPriority++
		}
	}

	reached := s.Contacted + s.Responded + s.Converted + s.Unresponsive
	if reached > 0 {
		s.ResponseRate = float64(s.Responded+s.Converted) / float64(reached)
	}
	return s
}
