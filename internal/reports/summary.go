package reports

import (
	"fmt"
	"sort"
	"strings"

	"tvcharts/internal/binning"
	"tvcharts/internal/dashboard"
	"tvcharts/internal/views"
)

// BuildSummaryMarkdown writes the dataset summary shown under the charts:
// record counts per screen technology and the current histogram bins.
func BuildSummaryMarkdown(st dashboard.Status) string {
	var b strings.Builder

	b.WriteString("## Dataset\n\n")
	fmt.Fprintf(&b, "**%d** records loaded from `%s`.", st.Records, st.Source)
	fmt.Fprintf(&b, " Showing **%d** with filter **%s**.\n\n", st.Filtered, filterLabel(st))

	techs := make([]string, 0, len(st.ByTech))
	for tech := range st.ByTech {
		techs = append(techs, tech)
	}
	sort.Strings(techs)

	b.WriteString("| Technology | Records |\n|---|---:|\n")
	for _, tech := range techs {
		fmt.Fprintf(&b, "| %s | %d |\n", tech, st.ByTech[tech])
	}

	label := st.Field
	if f, err := binning.ParseField(st.Field); err == nil {
		label = f.Label()
	}
	fmt.Fprintf(&b, "\n## %s bins\n\n", label)
	if len(st.Bins) == 0 {
		b.WriteString("_No bins._\n")
		return b.String()
	}
	b.WriteString("| Range | Count |\n|---|---:|\n")
	for i, bin := range st.Bins {
		closing := ")"
		if i == len(st.Bins)-1 {
			closing = "]"
		}
		fmt.Fprintf(&b, "| [%s, %s%s | %d |\n",
			views.FormatValue(bin.Lower), views.FormatValue(bin.Upper), closing, bin.Count)
	}
	if st.Skipped > 0 {
		fmt.Fprintf(&b, "\n_%d records without a value were left out of the bins._\n", st.Skipped)
	}
	return b.String()
}

func filterLabel(st dashboard.Status) string {
	for _, f := range st.Filters {
		if f.ID == st.Filter {
			return f.Label
		}
	}
	return string(st.Filter)
}
