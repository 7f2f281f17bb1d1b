package yts

// Envelope fields shared by every provider response
type envelope struct {
	Status        string `json:"status"`
	StatusMessage string `json:"status_message"`
}

// ListResponse is the /list_movies.json response
type ListResponse struct {
	envelope
	Data ListData `json:"data"`
}

// ListData is the data section of a list response
type ListData struct {
	MovieCount int     `json:"movie_count"`
	Limit      int     `json:"limit"`
	PageNumber int     `json:"page_number"`
	Movies     []Movie `json:"movies,omitempty"`
}

// DetailResponse is the /movie_details.json response
type DetailResponse struct {
	envelope
	Data struct {
		Movie Movie `json:"movie"`
	} `json:"data"`
}

// Movie is a movie record as sent by the provider
type Movie struct {
	ID                      int       `json:"id"`
	URL                     string    `json:"url"`
	IMDbCode                string    `json:"imdb_code"`
	Title                   string    `json:"title"`
	TitleEnglish            string    `json:"title_english,omitempty"`
	TitleLong               string    `json:"title_long"`
	Slug                    string    `json:"slug"`
	Year                    int       `json:"year"`
	Rating                  float64   `json:"rating"`
	Runtime                 int       `json:"runtime"`
	Genres                  []string  `json:"genres,omitempty"`
	Summary                 string    `json:"summary,omitempty"`
	DescriptionFull         string    `json:"description_full,omitempty"`
	Synopsis                string    `json:"synopsis,omitempty"`
	YTTrailerCode           string    `json:"yt_trailer_code,omitempty"`
	Language                string    `json:"language,omitempty"`
	MPARating               string    `json:"mpa_rating,omitempty"`
	BackgroundImage         string    `json:"background_image,omitempty"`
	BackgroundImageOriginal string    `json:"background_image_original,omitempty"`
	SmallCoverImage         string    `json:"small_cover_image,omitempty"`
	MediumCoverImage        string    `json:"medium_cover_image,omitempty"`
	LargeCoverImage         string    `json:"large_cover_image,omitempty"`
	State                   string    `json:"state,omitempty"`
	Torrents                []Torrent `json:"torrents,omitempty"`
	DateUploaded            string    `json:"date_uploaded,omitempty"`
	DateUploadedUnix        int64     `json:"date_uploaded_unix,omitempty"`
	LikeCount               int       `json:"like_count,omitempty"`
	DownloadCount           int       `json:"download_count,omitempty"`
	LargeScreenshotImage1   string    `json:"large_screenshot_image1,omitempty"`
	LargeScreenshotImage2   string    `json:"large_screenshot_image2,omitempty"`
	LargeScreenshotImage3   string    `json:"large_screenshot_image3,omitempty"`
	MediumScreenshotImage1  string    `json:"medium_screenshot_image1,omitempty"`
	MediumScreenshotImage2  string    `json:"medium_screenshot_image2,omitempty"`
	MediumScreenshotImage3  string    `json:"medium_screenshot_image3,omitempty"`
}

// Torrent is a torrent record as sent by the provider
type Torrent struct {
	URL              string `json:"url"`
	Hash             string `json:"hash"`
	Quality          string `json:"quality"`
	Type             string `json:"type"`
	IsRepack         string `json:"is_repack,omitempty"`
	VideoCodec       string `json:"video_codec,omitempty"`
	BitDepth         string `json:"bit_depth,omitempty"`
	AudioChannels    string `json:"audio_channels,omitempty"`
	Seeds            int    `json:"seeds"`
	Peers            int    `json:"peers"`
	Size             string `json:"size"`
	SizeBytes        int64  `json:"size_bytes"`
	DateUploaded     string `json:"date_uploaded,omitempty"`
	DateUploadedUnix int64  `json:"date_uploaded_unix,omitempty"`
}
