package tiklydown

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/orgball2608/tiktok-downloader/internal/domain"
	apperrors "github.com/orgball2608/tiktok-downloader/pkg/errors"
)

const statusOK = 200

// Response is the download/v3 payload.
type Response struct {
	Status  int     `json:"status"`
	Message string  `json:"message,omitempty"`
	Result  *Result `json:"result"`
}

type Result struct {
	Type       string      `json:"type"`
	Desc       string      `json:"desc"`
	Author     Author      `json:"author"`
	Statistics Statistics  `json:"statistics"`
	Video      MediaSource `json:"video"`
}

type Author struct {
	Nickname  string `json:"nickname"`
	UniqueID  string `json:"unique_id"`
	Avatar    string `json:"avatar"`
	Signature string `json:"signature,omitempty"`
}

type Statistics struct {
	LikeCount    Count  `json:"likeCount"`
	CommentCount Count  `json:"commentCount"`
	ShareCount   Count  `json:"shareCount"`
	PlayCount    Count  `json:"playCount"`
	SaveCount    *Count `json:"saveCount,omitempty"`
}

// MediaSource holds the media URLs of a result. The API sends either a plain
// string (the watermark-free URL) or an object with both variants.
type MediaSource struct {
	NoWatermark string `json:"noWatermark"`
	Watermark   string `json:"watermark"`
}

func (m *MediaSource) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*m = MediaSource{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*m = MediaSource{NoWatermark: s}
		return nil
	}

	type plain MediaSource
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = MediaSource(p)
	return nil
}

// Preferred returns the watermark-free URL when present.
func (m MediaSource) Preferred() string {
	if m.NoWatermark != "" {
		return m.NoWatermark
	}
	return m.Watermark
}

// Count accepts a JSON number or a pre-formatted string.
type Count domain.Count

func (c *Count) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = Count{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*c = Count{Text: s}
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("count is neither a number nor a string: %w", err)
	}
	if v, err := n.Int64(); err == nil {
		*c = Count{Value: v}
		return nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return err
	}
	if math.Abs(f) >= math.Exp2(63) {
		// Out of int64 range: keep the number as sent.
		*c = Count{Text: n.String()}
		return nil
	}
	*c = Count{Value: int64(f)}
	return nil
}

// Validate checks the success discriminator and the media URL.
func (r *Response) Validate() error {
	if r.Status != statusOK {
		return apperrors.WrapWithCode(ErrUnsuccessful, apperrors.CodeSemantic,
			fmt.Sprintf("status %d %s", r.Status, r.Message))
	}
	if r.Result == nil {
		return apperrors.WrapWithCode(ErrNoResult, apperrors.CodeSemantic, "invalid response")
	}
	if r.Result.Video.Preferred() == "" {
		return apperrors.WrapWithCode(ErrNoDownloadLink, apperrors.CodeSemantic, "invalid response")
	}
	return nil
}

// Media copies the result into the domain model. Call Validate first.
func (r *Response) Media() *domain.ResolvedMedia {
	res := r.Result
	media := &domain.ResolvedMedia{
		Author: domain.Author{
			Nickname:  res.Author.Nickname,
			Handle:    res.Author.UniqueID,
			Avatar:    res.Author.Avatar,
			Signature: res.Author.Signature,
		},
		Caption: res.Desc,
		Video:   res.Video.Preferred(),
		Statistics: domain.Statistics{
			Likes:    domain.Count(res.Statistics.LikeCount),
			Comments: domain.Count(res.Statistics.CommentCount),
			Shares:   domain.Count(res.Statistics.ShareCount),
			Plays:    domain.Count(res.Statistics.PlayCount),
		},
	}
	if res.Statistics.SaveCount != nil {
		saves := domain.Count(*res.Statistics.SaveCount)
		media.Statistics.Saves = &saves
	}
	return media
}

// Decode narrows a raw body into ResolvedMedia. Syntax and type errors are
// coded decode, a well-formed body without a usable link is coded semantic.
func Decode(body []byte) (*domain.ResolvedMedia, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, apperrors.WrapWithCode(err, apperrors.CodeDecode, "malformed response body")
	}
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	return resp.Media(), nil
}
