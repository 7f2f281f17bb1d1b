package yts

import (
	"time"

	"github.com/mmcdole/reel/internal/domain"
)

// MapMovies converts provider movies to domain summaries, keeping provider order
func MapMovies(movies []Movie) []domain.MovieSummary {
	items := make([]domain.MovieSummary, 0, len(movies))
	for _, m := range movies {
		items = append(items, mapSummary(m))
	}
	return items
}

// MapMovieDetail converts a provider movie to a domain detail record
func MapMovieDetail(m Movie) *domain.MovieDetail {
	detail := &domain.MovieDetail{
		MovieSummary:    mapSummary(m),
		DescriptionFull: m.DescriptionFull,
		TrailerCode:     m.YTTrailerCode,
		LikeCount:       m.LikeCount,
		DownloadCount:   m.DownloadCount,
	}
	if detail.DescriptionFull == "" {
		detail.DescriptionFull = m.Synopsis
	}

	for _, s := range []string{m.LargeScreenshotImage1, m.LargeScreenshotImage2, m.LargeScreenshotImage3} {
		if s != "" {
			detail.Screenshots = append(detail.Screenshots, s)
		}
	}
	// Fall back to medium screenshots if large ones are missing
	if len(detail.Screenshots) == 0 {
		for _, s := range []string{m.MediumScreenshotImage1, m.MediumScreenshotImage2, m.MediumScreenshotImage3} {
			if s != "" {
				detail.Screenshots = append(detail.Screenshots, s)
			}
		}
	}

	return detail
}

// mapSummary converts a single provider movie to a domain summary
func mapSummary(m Movie) domain.MovieSummary {
	summary := domain.MovieSummary{
		ID:               m.ID,
		URL:              m.URL,
		IMDbCode:         m.IMDbCode,
		Title:            m.Title,
		TitleLong:        m.TitleLong,
		Slug:             m.Slug,
		Year:             m.Year,
		Rating:           m.Rating,
		Runtime:          m.Runtime,
		Genres:           m.Genres,
		Summary:          m.Summary,
		Language:         m.Language,
		MPARating:        m.MPARating,
		BackgroundImage:  m.BackgroundImage,
		SmallCoverImage:  m.SmallCoverImage,
		MediumCoverImage: m.MediumCoverImage,
		LargeCoverImage:  m.LargeCoverImage,
		UploadedAt:       unixTime(m.DateUploadedUnix),
	}

	if summary.Title == "" {
		summary.Title = m.TitleEnglish
	}
	if summary.Summary == "" {
		summary.Summary = m.Synopsis
	}

	if len(m.Torrents) > 0 {
		summary.Torrents = make([]domain.Torrent, 0, len(m.Torrents))
		for _, t := range m.Torrents {
			summary.Torrents = append(summary.Torrents, mapTorrent(t))
		}
	}

	return summary
}

func mapTorrent(t Torrent) domain.Torrent {
	return domain.Torrent{
		URL:           t.URL,
		Hash:          t.Hash,
		Quality:       t.Quality,
		Type:          t.Type,
		VideoCodec:    t.VideoCodec,
		BitDepth:      t.BitDepth,
		AudioChannels: t.AudioChannels,
		Seeds:         t.Seeds,
		Peers:         t.Peers,
		Size:          t.Size,
		SizeBytes:     t.SizeBytes,
		UploadedAt:    unixTime(t.DateUploadedUnix),
	}
}

func unixTime(sec int64) time.Time {
	if sec <= 0 {
		return time.Time{}
	}
	return time.Unix(sec, 0).UTC()
}
