// Package renderer turns statements into paginated documents.
package renderer

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/message"

	"github.com/iho/bonusledger/internal/domain"
	"github.com/iho/bonusledger/internal/infrastructure/i18n"
	"github.com/iho/bonusledger/internal/usecase"
)

// ContentTypeText is the content type of rendered text statements.
const ContentTypeText = "text/plain; charset=utf-8"

const rowFormat = "%-10s %12s %12s %12s %12s\n"

// TextRenderer renders statements as plain-text pages with localized labels
// and locale-aware number grouping.
type TextRenderer struct{}

// NewTextRenderer creates a new TextRenderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// Render splits the statement rows into pages of pageSize rows. Totals and the
// closing balance are printed on the last page. A statement without rows
// renders as a single page.
func (r *TextRenderer) Render(ctx context.Context, st *domain.Statement, locale string, pageSize int) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = usecase.DefaultStatementPageSize
	}

	p := i18n.Printer(locale)
	chunks := paginate(st.Rows, pageSize)

	pages := make([]string, len(chunks))
	for i, rows := range chunks {
		var b strings.Builder

		b.WriteString(p.Sprintf(i18n.KeyStatementTitle, domain.FormatDate(st.StartDate), domain.FormatDate(st.EndDate)))
		b.WriteByte('\n')
		b.WriteString(p.Sprintf(i18n.KeyStatementAccount, st.AccountID))
		b.WriteByte('\n')
		b.WriteString(p.Sprintf(i18n.KeyStatementOpening, st.OpeningBalance))
		b.WriteString("\n\n")

		if len(rows) == 0 {
			b.WriteString(p.Sprintf(i18n.KeyStatementEmpty))
			b.WriteByte('\n')
		} else {
			writeHeader(&b, p)
			for _, row := range rows {
				fmt.Fprintf(&b, rowFormat,
					domain.FormatDate(row.Date),
					number(p, row.OpeningBalance),
					number(p, row.Additions),
					number(p, row.Removals),
					number(p, row.ClosingBalance()),
				)
			}
		}

		if i == len(chunks)-1 {
			b.WriteByte('\n')
			b.WriteString(p.Sprintf(i18n.KeyStatementTotals, st.TotalAdditions, st.TotalRemovals))
			b.WriteByte('\n')
			b.WriteString(p.Sprintf(i18n.KeyStatementClosing, st.ClosingBalance))
			b.WriteByte('\n')
		}

		b.WriteByte('\n')
		b.WriteString(p.Sprintf(i18n.KeyStatementPage, i+1, len(chunks)))
		b.WriteByte('\n')

		pages[i] = b.String()
	}

	return &domain.Document{
		ContentType: ContentTypeText,
		Pages:       pages,
	}, nil
}

func writeHeader(b *strings.Builder, p *message.Printer) {
	cols := strings.Split(p.Sprintf(i18n.KeyStatementColumns), "|")
	for len(cols) < 5 {
		cols = append(cols, "")
	}
	fmt.Fprintf(b, rowFormat, cols[0], cols[1], cols[2], cols[3], cols[4])
}

func number(p *message.Printer, v int64) string {
	return p.Sprintf("%d", v)
}

func paginate(rows []domain.StatementRow, size int) [][]domain.StatementRow {
	if len(rows) == 0 {
		return [][]domain.StatementRow{nil}
	}
	var chunks [][]domain.StatementRow
	for start := 0; start < len(rows); start += size {
		end := min(start+size, len(rows))
		chunks = append(chunks, rows[start:end])
	}
	return chunks
}
