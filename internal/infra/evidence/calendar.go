package evidence

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/serplab/rankforensics/internal/domain/forensics"
)

//go:embed algo_updates.yaml
var algoUpdatesYAML []byte

type calendarEntry struct {
	Name        string `yaml:"name"`
	Date        string `yaml:"date"` // YYYY-MM-DD
	ImpactLevel string `yaml:"impact_level"`
}

// Calendar is the known search-algorithm update dataset, loaded once at
// construction from the embedded YAML file.
type Calendar struct {
	updates []forensics.AlgoUpdate
}

func NewCalendar() (*Calendar, error) {
	return newCalendarFrom(algoUpdatesYAML)
}

func newCalendarFrom(data []byte) (*Calendar, error) {
	var entries []calendarEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing algo update calendar: %w", err)
	}
	c := &Calendar{}
	for _, e := range entries {
		d, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			return nil, fmt.Errorf("bad date %q for update %q: %w", e.Date, e.Name, err)
		}
		c.updates = append(c.updates, forensics.AlgoUpdate{
			Name:        e.Name,
			Date:        d,
			ImpactLevel: e.ImpactLevel,
		})
	}
	return c, nil
}

// Between returns updates whose date falls in [start, end].
func (c *Calendar) Between(_ context.Context, start, end time.Time) ([]forensics.AlgoUpdate, error) {
	var out []forensics.AlgoUpdate
	for _, u := range c.updates {
		if u.Date.Before(start) || u.Date.After(end) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}
