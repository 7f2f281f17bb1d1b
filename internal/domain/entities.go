package domain

import (
	"fmt"
	"strings"
	"time"
)

// Torrent is one downloadable variant of a movie
type Torrent struct {
	URL           string    // .torrent file URL
	Hash          string    // Info hash
	Quality       string    // "720p", "1080p", "2160p", "3D"
	Type          string    // "bluray", "web"
	VideoCodec    string    // "x264", "x265"
	BitDepth      string    // "8", "10"
	AudioChannels string    // "2.0", "5.1"
	Seeds         int       // Seeders at fetch time
	Peers         int       // Peers at fetch time
	Size          string    // Human readable size as reported by the provider
	SizeBytes     int64     // Size in bytes
	UploadedAt    time.Time // When the torrent was uploaded
}

// Label returns a short description like "1080p bluray (1.6 GB)"
func (t Torrent) Label() string {
	label := t.Quality
	if t.Type != "" {
		label += " " + t.Type
	}
	if t.Size != "" {
		label += " (" + t.Size + ")"
	}
	return strings.TrimSpace(label)
}

// MagnetURI builds a magnet link for the torrent hash
func (t Torrent) MagnetURI(title string) string {
	if t.Hash == "" {
		return ""
	}
	return fmt.Sprintf("magnet:?xt=urn:btih:%s&dn=%s", t.Hash, strings.ReplaceAll(title, " ", "+"))
}

// MovieSummary is a movie as it appears in list results.
// Fields mirror the provider's schema and are passed through as received.
type MovieSummary struct {
	ID        int    // Provider movie id
	URL       string // Provider page URL
	IMDbCode  string // "tt0133093"
	Title     string
	TitleLong string // "The Matrix (1999)"
	Slug      string
	Year      int
	Rating    float64 // 0-10
	Runtime   int     // Minutes
	Genres    []string
	Summary   string
	Language  string
	MPARating string

	// Image URLs
	BackgroundImage  string
	SmallCoverImage  string
	MediumCoverImage string
	LargeCoverImage  string

	Torrents   []Torrent
	UploadedAt time.Time
}

// FormattedRuntime returns the runtime in a human-readable format
func (m MovieSummary) FormattedRuntime() string {
	if m.Runtime <= 0 {
		return ""
	}
	h := m.Runtime / 60
	mins := m.Runtime % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, mins)
	}
	return fmt.Sprintf("%dm", mins)
}

// DisplayTitle returns the long title when present, otherwise "Title (Year)"
func (m MovieSummary) DisplayTitle() string {
	if m.TitleLong != "" {
		return m.TitleLong
	}
	if m.Year > 0 {
		return fmt.Sprintf("%s (%d)", m.Title, m.Year)
	}
	return m.Title
}

// IMDbURL returns the IMDb page for the movie, or "" if unknown
func (m MovieSummary) IMDbURL() string {
	if m.IMDbCode == "" {
		return ""
	}
	return "https://www.imdb.com/title/" + m.IMDbCode + "/"
}

// Qualities returns the distinct torrent qualities in provider order
func (m MovieSummary) Qualities() []string {
	seen := make(map[string]bool)
	var out []string
	for _, t := range m.Torrents {
		if t.Quality == "" || seen[t.Quality] {
			continue
		}
		seen[t.Quality] = true
		out = append(out, t.Quality)
	}
	return out
}

// MovieDetail is the full record returned by the details endpoint
type MovieDetail struct {
	MovieSummary

	DescriptionFull string
	TrailerCode     string // YouTube video id
	LikeCount       int
	DownloadCount   int
	Screenshots     []string // Large screenshot URLs, in order
}

// TrailerURL returns the YouTube URL for the trailer, or "" if none
func (d MovieDetail) TrailerURL() string {
	if d.TrailerCode == "" {
		return ""
	}
	return "https://www.youtube.com/watch?v=" + d.TrailerCode
}

// Description returns the long description, falling back to the summary
func (d MovieDetail) Description() string {
	if d.DescriptionFull != "" {
		return d.DescriptionFull
	}
	if d.Summary != "" {
		return d.Summary
	}
	return "No description available."
}

// qualityRank orders torrent qualities from most to least preferred
var qualityRank = map[string]int{
	"1080p": 5,
	"2160p": 4,
	"720p":  3,
	"3D":    2,
	"480p":  1,
	"":      0,
}

// BestTorrent picks the preferred torrent: highest ranked quality, then most seeds
func (d MovieDetail) BestTorrent() (Torrent, bool) {
	if len(d.Torrents) == 0 {
		return Torrent{}, false
	}
	best := d.Torrents[0]
	for _, t := range d.Torrents[1:] {
		rt, rb := qualityRank[t.Quality], qualityRank[best.Quality]
		if rt > rb || (rt == rb && t.Seeds > best.Seeds) {
			best = t
		}
	}
	return best, true
}
