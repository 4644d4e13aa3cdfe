package models

// ChannelProfile is the public view of a user together with subscription
// counters. IsSubscribed is relative to the viewer and false for anonymous
// requests.
type ChannelProfile struct {
	ID                        string `json:"_id"`
	Username                  string `json:"username"`
	Email                     string `json:"email"`
	FullName                  string `json:"fullName"`
	Avatar                    Media  `json:"avatar"`
	CoverImage                *Media `json:"coverImage"`
	SubscribersCount          int64  `json:"subscribersCount"`
	ChannelsSubscribedToCount int64  `json:"channelsSubscribedToCount"`
	IsSubscribed              bool   `json:"isSubscribed"`
}
