package domain

import "github.com/orgball2608/tiktok-downloader/pkg/formatter"

// ResolvedMedia is the decoded result of one successful resolution.
type ResolvedMedia struct {
	Author     Author
	Caption    string
	Video      string // Direct media URL, watermark-free when the API offers it
	Statistics Statistics
}

type Author struct {
	Nickname  string
	Handle    string
	Avatar    string
	Signature string // Bio, may be empty
}

type Statistics struct {
	Likes    Count
	Comments Count
	Shares   Count
	Plays    Count
	Saves    *Count // nil when the API omits it
}

// Count is an engagement counter. APIs report some counters as numbers and
// some as pre-formatted text ("1.2M"); Text is kept verbatim when present.
type Count struct {
	Value int64
	Text  string
}

func (c Count) String() string {
	if c.Text != "" {
		return c.Text
	}
	return formatter.FormatNumber(c.Value)
}
