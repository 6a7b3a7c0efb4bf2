package summarizer

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/ideamans/go-l10n"
)

// MarkdownFormatter renders a Summary as a markdown document.
type MarkdownFormatter struct{}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Extension implements Formatter.
func (f *MarkdownFormatter) Extension() string { return ".md" }

// Format implements Formatter.
func (f *MarkdownFormatter) Format(s *Summary) string {
	var b strings.Builder

	b.WriteString("# " + l10n.T("Replay Clip") + "\n\n")
	fmt.Fprintf(&b, "%s %s\n\n", l10n.T("Generated at"), s.GeneratedAt.Format(time.RFC3339))

	section(&b, l10n.T("Clip"))
	row(&b, l10n.T("File"), "`"+s.Clip.Path+"`")
	row(&b, l10n.T("Frames"), fmt.Sprintf("%d", s.Clip.Frames))
	row(&b, l10n.T("Span"), formatSeconds(s.Clip.Span))
	row(&b, l10n.T("Frame rate"), fmt.Sprintf("%.2f fps", s.Clip.FPS))
	row(&b, l10n.T("Resolution"), fmt.Sprintf("%dx%d", s.Clip.Width, s.Clip.Height))
	row(&b, l10n.T("File size"), humanize.Bytes(uint64(max(s.Clip.FileSize, 0))))
	if s.Clip.Elapsed > 0 {
		row(&b, l10n.T("Export time"), formatSeconds(s.Clip.Elapsed))
	}
	b.WriteString("\n")

	section(&b, l10n.T("Capture"))
	row(&b, l10n.T("Source"), orDash(s.Capture.Source))
	row(&b, l10n.T("Process"), orDash(s.Capture.Process))
	row(&b, l10n.T("Window"), s.Capture.Window.String())
	b.WriteString("\n")

	section(&b, l10n.T("Encoder"))
	row(&b, l10n.T("Codec"), orDash(s.Encoder.Codec))
	row(&b, l10n.T("Pixel format"), orDash(s.Encoder.PixelFormat))
	row(&b, l10n.T("Preset"), orDash(s.Encoder.Preset))
	if s.Encoder.CRF > 0 {
		row(&b, l10n.T("CRF"), fmt.Sprintf("%d", s.Encoder.CRF))
	} else {
		row(&b, l10n.T("CRF"), "-")
	}

	if c := s.Container; c != nil {
		b.WriteString("\n")
		section(&b, l10n.T("Container"))
		row(&b, l10n.T("Track codec"), orDash(c.Codec))
		row(&b, l10n.T("Samples"), fmt.Sprintf("%d", c.Frames))
		row(&b, l10n.T("Duration"), formatSeconds(c.Duration))
	}

	return b.String()
}

func section(b *strings.Builder, title string) {
	fmt.Fprintf(b, "## %s\n\n| %s | %s |\n|---|---|\n", title, l10n.T("Item"), l10n.T("Value"))
}

func row(b *strings.Builder, item, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", item, value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func formatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2f s", d.Seconds())
}

var _ Formatter = (*MarkdownFormatter)(nil)
