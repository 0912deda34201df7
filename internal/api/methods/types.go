package methods

// User is an entry of the users.get response.
type User struct {
	ID              int64  `json:"id"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Deactivated     string `json:"deactivated,omitempty"`
	IsClosed        bool   `json:"is_closed"`
	CanAccessClosed bool   `json:"can_access_closed"`
	ScreenName      string `json:"screen_name,omitempty"`
	BDate           string `json:"bdate,omitempty"`
}

// FriendList is the friends.get response.
type FriendList struct {
	Count int     `json:"count"`
	Items []int64 `json:"items"`
}

// Post is a wall entry.
type Post struct {
	ID      int64  `json:"id"`
	OwnerID int64  `json:"owner_id"`
	FromID  int64  `json:"from_id"`
	Date    int64  `json:"date"`
	Text    string `json:"text"`
}

// WallPage is the wall.get response.
type WallPage struct {
	Count int    `json:"count"`
	Items []Post `json:"items"`
}

// PostResult is the wall.post response.
type PostResult struct {
	PostID int64 `json:"post_id"`
}

// Status is the status.get response.
type Status struct {
	Text string `json:"text"`
}
