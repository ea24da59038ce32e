package reports

import (
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatThousands renders n with comma group separators, e.g. 1234567 -> "1,234,567".
func FormatThousands(n int64) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}

func formatDay(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
