package conversation

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diogo/geminichat/internal/models"
)

// ExportFormat represents the format for exporting a transcript
type ExportFormat string

const (
	ExportFormatMarkdown ExportFormat = "markdown"
	ExportFormatJSON     ExportFormat = "json"
)

// Extension returns the file extension for the format
func (f ExportFormat) Extension() string {
	if f == ExportFormatJSON {
		return ".json"
	}
	return ".md"
}

// ExportOptions configures how a transcript is exported
type ExportOptions struct {
	Format     ExportFormat
	ModelLabel string
	// IncludeFailed keeps FAILED replies in the transcript
	IncludeFailed bool
}

// DefaultExportOptions returns markdown without failed replies
func DefaultExportOptions() ExportOptions {
	return ExportOptions{Format: ExportFormatMarkdown}
}

type exportMessage struct {
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type exportTranscript struct {
	Model      string          `json:"model,omitempty"`
	ExportedAt time.Time       `json:"exported_at"`
	Messages   []exportMessage `json:"messages"`
}

// Export writes conv as a transcript. Pending placeholders are never exported.
func Export(conv models.Conversation, opts ExportOptions) ([]byte, error) {
	entries := exportable(conv, opts.IncludeFailed)

	switch opts.Format {
	case ExportFormatJSON:
		return exportJSON(entries, opts)
	case ExportFormatMarkdown, "":
		return []byte(exportMarkdown(entries, opts)), nil
	default:
		return nil, fmt.Errorf("unknown export format %q", opts.Format)
	}
}

func exportable(conv models.Conversation, includeFailed bool) []models.MessageEntry {
	var out []models.MessageEntry
	for _, e := range conv.Entries() {
		if e.IsPending() {
			continue
		}
		if e.Status == models.StatusFailed && !includeFailed {
			continue
		}
		out = append(out, e)
	}
	return out
}

func exportMarkdown(entries []models.MessageEntry, opts ExportOptions) string {
	var sb strings.Builder

	sb.WriteString("# Gemini Chat\n\n")
	if opts.ModelLabel != "" {
		sb.WriteString("**Model:** ")
		sb.WriteString(opts.ModelLabel)
		sb.WriteString("\n")
	}
	sb.WriteString(fmt.Sprintf("**Messages:** %d\n\n---\n\n", len(entries)))

	for i, e := range entries {
		role := "You"
		if e.Sender == models.SenderAssistant {
			role = "Assistant"
		}

		sb.WriteString("## ")
		sb.WriteString(role)
		if !e.CreatedAt.IsZero() {
			sb.WriteString(" (")
			sb.WriteString(e.CreatedAt.Format("15:04:05"))
			sb.WriteString(")")
		}
		sb.WriteString("\n\n")

		if e.Status == models.StatusFailed {
			sb.WriteString("> ")
		}
		sb.WriteString(e.Text)
		sb.WriteString("\n")

		if i < len(entries)-1 {
			sb.WriteString("\n---\n\n")
		}
	}

	return sb.String()
}

func exportJSON(entries []models.MessageEntry, opts ExportOptions) ([]byte, error) {
	out := exportTranscript{
		Model:      opts.ModelLabel,
		ExportedAt: time.Now().UTC(),
		Messages:   make([]exportMessage, len(entries)),
	}
	for i, e := range entries {
		out.Messages[i] = exportMessage{
			Role:      e.Sender.String(),
			Status:    e.Status.String(),
			Content:   e.Text,
			Timestamp: e.CreatedAt,
		}
	}
	return json.MarshalIndent(out, "", "  ")
}
