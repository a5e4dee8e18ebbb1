package evaluation

import (
	"encoding/json"
	"fmt"
	"os"
)

// LoadDataset reads a labeled query set from a JSON file: an array of
// records each carrying a query id, the question text, and one or more
// expected article identifiers.
func LoadDataset(path string) ([]LabeledQuery, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("evaluation: reading dataset %s: %w", path, err)
	}

	var queries []LabeledQuery
	if err := json.Unmarshal(data, &queries); err != nil {
		return nil, fmt.Errorf("evaluation: parsing dataset %s: %w", path, err)
	}

	for i, q := range queries {
		if q.ID == "" {
			return nil, fmt.Errorf("evaluation: dataset %s: record %d has no id", path, i)
		}
		if q.Question == "" {
			return nil, fmt.Errorf("evaluation: dataset %s: query %s has no question", path, q.ID)
		}
		if len(q.ExpectedArticleIDs) == 0 {
			return nil, fmt.Errorf("evaluation: dataset %s: query %s has no reference articles", path, q.ID)
		}
	}

	return queries, nil
}
