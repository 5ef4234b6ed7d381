package reports

import (
	"encoding/json"
	"fmt"

	"tvcharts/internal/dashboard"
	"tvcharts/internal/render/svg"
	"tvcharts/internal/storage"
)

// Sender runs one dashboard command and returns its result
type Sender func(dashboard.Command) (dashboard.Result, error)

var snapshotCharts = []struct {
	name  string
	title string
}{
	{dashboard.ChartHistogram, "Energy consumption"},
	{dashboard.ChartScatterplot, "Screen size by star rating"},
}

// SnapshotArtifacts renders every chart in every image format plus a static
// page and the state as JSON. The page links the SVG images next to it.
func (p *PageBuilder) SnapshotArtifacts(send Sender) ([]storage.Artifact, error) {
	state, err := send(dashboard.State{})
	if err != nil {
		return nil, fmt.Errorf("read state: %w", err)
	}

	var (
		artifacts []storage.Artifact
		images    []Image
	)
	for _, chart := range snapshotCharts {
		for _, format := range []svg.Format{svg.SVG, svg.PNG} {
			res, err := send(dashboard.Snapshot{Chart: chart.name, Format: format})
			if err != nil {
				return nil, fmt.Errorf("snapshot %s: %w", chart.name, err)
			}
			name := chart.name + "." + string(format)
			artifacts = append(artifacts, storage.Artifact{Name: name, Data: res.Image})
			if format == svg.SVG {
				images = append(images, Image{Title: chart.title, Src: name})
			}
		}
	}

	page, err := p.BuildPage(state, false, images)
	if err != nil {
		return nil, err
	}
	statusJSON, err := json.MarshalIndent(state.Status, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}

	artifacts = append(artifacts,
		storage.Artifact{Name: "index.html", Data: page},
		storage.Artifact{Name: "state.json", Data: statusJSON},
	)
	return artifacts, nil
}
