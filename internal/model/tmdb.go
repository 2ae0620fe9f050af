package model

// TMDBMovie 搜索 / 列表结果中的电影条目
type TMDBMovie struct {
	ID               int     `json:"id"`
	Title            string  `json:"title"`
	OriginalTitle    string  `json:"original_title"`
	Overview         string  `json:"overview"`
	PosterPath       *string `json:"poster_path"`
	BackdropPath     *string `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
	GenreIDs         []int   `json:"genre_ids"`
	Adult            bool    `json:"adult"`
	OriginalLanguage string  `json:"original_language"`
	Video            bool    `json:"video"`
}

// TMDBSearchResponse 电影搜索 / 热门列表响应
type TMDBSearchResponse struct {
	Page         int         `json:"page"`
	Results      []TMDBMovie `json:"results"`
	TotalPages   int         `json:"total_pages"`
	TotalResults int         `json:"total_results"`
}

// TMDBMultiResult multi 搜索条目（电影或剧集，按 media_type 区分）
type TMDBMultiResult struct {
	ID            int     `json:"id"`
	MediaType     string  `json:"media_type"`
	Title         string  `json:"title,omitempty"`          // 电影
	Name          string  `json:"name,omitempty"`           // 剧集
	OriginalTitle string  `json:"original_title,omitempty"` // 电影
	OriginalName  string  `json:"original_name,omitempty"`  // 剧集
	Overview      string  `json:"overview"`
	PosterPath    *string `json:"poster_path"`
	BackdropPath  *string `json:"backdrop_path"`
	ReleaseDate   string  `json:"release_date,omitempty"`
	FirstAirDate  string  `json:"first_air_date,omitempty"`
	VoteAverage   float64 `json:"vote_average"`
	VoteCount     int     `json:"vote_count"`
	Popularity    float64 `json:"popularity"`
	GenreIDs      []int   `json:"genre_ids,omitempty"`
}

// TMDBMultiSearchResponse multi 搜索响应（电影 + 剧集）
type TMDBMultiSearchResponse struct {
	Page         int               `json:"page"`
	Results      []TMDBMultiResult `json:"results"`
	TotalPages   int               `json:"total_pages"`
	TotalResults int               `json:"total_results"`
}

// TMDBGenre 类型标签
type TMDBGenre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// TMDBMovieDetails 电影详情
type TMDBMovieDetails struct {
	ID               int         `json:"id"`
	Title            string      `json:"title"`
	OriginalTitle    string      `json:"original_title"`
	Overview         string      `json:"overview"`
	PosterPath       *string     `json:"poster_path"`
	BackdropPath     *string     `json:"backdrop_path"`
	ReleaseDate      string      `json:"release_date"`
	VoteAverage      float64     `json:"vote_average"`
	VoteCount        int         `json:"vote_count"`
	Popularity       float64     `json:"popularity"`
	Adult            bool        `json:"adult"`
	OriginalLanguage string      `json:"original_language"`
	Genres           []TMDBGenre `json:"genres"`
	Runtime          int         `json:"runtime"`
	Budget           int64       `json:"budget"`
	Revenue          int64       `json:"revenue"`
	Status           string      `json:"status"`
	Tagline          string      `json:"tagline"`
	IMDbID           *string     `json:"imdb_id"`
	Homepage         *string     `json:"homepage"`
}

// TMDBTVDetails 剧集详情
type TMDBTVDetails struct {
	ID               int         `json:"id"`
	Name             string      `json:"name"`
	OriginalName     string      `json:"original_name"`
	Overview         string      `json:"overview"`
	PosterPath       *string     `json:"poster_path"`
	BackdropPath     *string     `json:"backdrop_path"`
	FirstAirDate     string      `json:"first_air_date"`
	LastAirDate      string      `json:"last_air_date"`
	VoteAverage      float64     `json:"vote_average"`
	VoteCount        int         `json:"vote_count"`
	Popularity       float64     `json:"popularity"`
	OriginalLanguage string      `json:"original_language"`
	Genres           []TMDBGenre `json:"genres"`
	EpisodeRunTime   []int       `json:"episode_run_time"`
	NumberOfSeasons  int         `json:"number_of_seasons"`
	NumberOfEpisodes int         `json:"number_of_episodes"`
	Status           string      `json:"status"`
	Tagline          string      `json:"tagline"`
	Homepage         *string     `json:"homepage"`
}
