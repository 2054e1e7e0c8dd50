package core

// NotesByAuthor returns the notes owned by the given user id, preserving order.
func NotesByAuthor(notes []Note, authorID int64) []Note {
	mine := make([]Note, 0, len(notes))
	for _, n := range notes {
		if n.Author == authorID {
			mine = append(mine, n)
		}
	}
	return mine
}
