package models

// InstagramPost is a feed item as returned to website clients.
type InstagramPost struct {
	ID           string `json:"id"`
	MediaType    string `json:"mediaType"`
	MediaURL     string `json:"mediaUrl"`
	ThumbnailURL string `json:"thumbnailUrl"`
	Permalink    string `json:"permalink"`
	Timestamp    string `json:"timestamp"`
	Caption      string `json:"caption,omitempty"`
}

// InstagramAccount mirrors the Graph API profile fields passed through to clients.
type InstagramAccount struct {
	ID                string `json:"id,omitempty"`
	Username          string `json:"username"`
	Name              string `json:"name,omitempty"`
	ProfilePictureURL string `json:"profile_picture_url,omitempty"`
	Biography         string `json:"biography,omitempty"`
	FollowsCount      int    `json:"follows_count"`
	FollowersCount    int    `json:"followers_count"`
	MediaCount        int    `json:"media_count"`
	Website           string `json:"website,omitempty"`
}
