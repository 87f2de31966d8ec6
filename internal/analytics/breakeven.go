package analytics

import (
	"fmt"

	"github.com/bobmcallan/strata/internal/models"
)

// BreakevenLevels converts the percentage-based terms of a structured note
// into absolute price levels relative to spot. Absent terms are simply
// omitted from the result.
func BreakevenLevels(terms *models.ProductTerms, spot float64) (*models.BreakevenReport, error) {
	if spot <= 0 {
		return nil, &InvalidParameterError{Param: "spot", Value: spot}
	}

	report := &models.BreakevenReport{
		SpotPrice: spot,
		Levels:    make(map[string]models.BreakevenLevel),
	}
	if terms == nil {
		return report, nil
	}

	if terms.Buffer != nil && terms.Buffer.Value > 0 {
		report.Levels["buffer_level"] = models.BreakevenLevel{
			Price:       spot * (1 - terms.Buffer.Value/100),
			Percentage:  -terms.Buffer.Value,
			Description: "Downside protection ends here",
		}
	}

	if terms.Barrier != nil && terms.Barrier.Value > 0 {
		report.Levels["barrier_level"] = models.BreakevenLevel{
			Price:       spot * (1 - terms.Barrier.Value/100),
			Percentage:  -terms.Barrier.Value,
			Description: "Downside participation begins here",
		}
	}

	if terms.KnockIn != nil {
		// Knock-in terms quote the level itself (e.g. 70 means 70% of
		// spot), unlike buffer/barrier which quote the decline.
		report.Levels["knock_in_level"] = models.BreakevenLevel{
			Price:       spot * terms.KnockIn.Value / 100,
			Percentage:  terms.KnockIn.Value - 100,
			Description: "Knock-in barrier activation",
		}
	}

	if terms.Cap != nil {
		report.Levels["cap_level"] = models.BreakevenLevel{
			Price:       spot * (1 + terms.Cap.Value/100),
			Percentage:  terms.Cap.Value,
			Description: "Maximum return level",
		}
	}

	if participation := terms.Participation(); participation != 1.0 {
		report.Levels["participation_breakeven"] = models.BreakevenLevel{
			Price:       spot,
			Percentage:  0,
			Description: fmt.Sprintf("With %.0f%% participation", participation*100),
		}
	}

	return report, nil
}
