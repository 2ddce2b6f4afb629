package models

import "strconv"

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// ItemKey returns the user id as a string key
func (u User) ItemKey() string {
	return formatID(int64(u.ID))
}

// ItemKey returns the trophy id as a string key
func (t Trophy) ItemKey() string {
	return formatID(int64(t.ID))
}

// ItemKey returns the post id as a string key
func (p BlogPost) ItemKey() string {
	return formatID(int64(p.ID))
}
