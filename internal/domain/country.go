package domain

// CountryMetadata is a cached, denormalized snapshot of a country's
// descriptive fields. It is never authoritative: entries are derived
// from the external reference source and expire after their TTL.
// Capital, region and subregion may be absent upstream and stay nil
// rather than defaulting to empty strings.
type CountryMetadata struct {
	Code         string  `json:"code"`
	Name         string  `json:"name"`
	OfficialName string  `json:"official_name"`
	Capital      *string `json:"capital"`
	Region       *string `json:"region"`
	Subregion    *string `json:"subregion"`
}

// LeaderboardEntry is one ranked row of the leaderboard. Metadata is
// optional decoration: a nil Metadata means the cache had no entry for
// the code, which is a valid state and never drops the row.
type LeaderboardEntry struct {
	CountryCode string           `json:"country_code"`
	VoteCount   int              `json:"vote_count"`
	Metadata    *CountryMetadata `json:"metadata"`
}
