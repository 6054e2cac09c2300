package app

import (
	_ "embed"
	"encoding/json"
	"sync"

	"github.com/nambiararyan24/portfolio/models"
)

//go:embed sample_content.json
var sampleContentJSON []byte

// SampleContent is the demo catalogue served while the store is unreachable
type SampleContent struct {
	Services []models.Service `json:"services"`
	Projects []models.Project `json:"projects"`
	Reviews  []models.Review  `json:"reviews"`
	Tools    []models.Tool    `json:"tools"`
}

var (
	sampleOnce sync.Once
	sample     SampleContent
)

// Sample returns a copy of the built-in content. The embedded file is
// checked by tests, so a decode failure yields empty lists.
func Sample() SampleContent {
	sampleOnce.Do(func() {
		_ = json.Unmarshal(sampleContentJSON, &sample)
	})
	return SampleContent{
		Services: append([]models.Service(nil), sample.Services...),
		Projects: append([]models.Project(nil), sample.Projects...),
		Reviews:  append([]models.Review(nil), sample.Reviews...),
		Tools:    append([]models.Tool(nil), sample.Tools...),
	}
}
