package models

// Favorite marks a story id as preferred. It does not own the story and may
// reference one that no longer exists locally.
type Favorite struct {
	StoryID string `json:"id"`
}

// FavoriteView is a favorite resolved against the local stories. Story is
// nil for a dangling reference.
type FavoriteView struct {
	StoryID string
	Story   *Story
}
