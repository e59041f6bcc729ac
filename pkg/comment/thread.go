// ABOUTME: Thread assembly over the flat parent-reference comment list
// ABOUTME: Depth-bounded traversal with a visited set guarding cycles

package comment

// DefaultMaxDepth is the presentation depth used when no limit is given:
// a top-level comment, its replies, and one more level of nesting.
const DefaultMaxDepth = 3

// Threads assembles the nested reply trees for an idea. Top-level
// comments come back newest first, each carrying its replies oldest
// first, nested up to maxDepth levels (DefaultMaxDepth when <= 0).
//
// Nothing in the data model prevents a parent-reference cycle, so the
// traversal carries a visited set and drops any reply already placed in
// a tree instead of recursing forever.
func (s *Store) Threads(ideaID int, maxDepth int) ([]*Thread, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	tops, err := s.ListByIdea(ideaID)
	if err != nil {
		return nil, err
	}

	visited := make(map[string]bool)
	threads := make([]*Thread, 0, len(tops))
	for _, top := range tops {
		if visited[top.ID] {
			continue
		}
		t, err := s.buildThread(top, 1, maxDepth, visited)
		if err != nil {
			return nil, err
		}
		threads = append(threads, t)
	}
	return threads, nil
}

// Thread assembles the reply tree rooted at a single comment, whether or
// not it is top-level. The same depth bound and cycle guard apply.
func (s *Store) Thread(id string, maxDepth int) (*Thread, error) {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	c, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return s.buildThread(c, 1, maxDepth, make(map[string]bool))
}

func (s *Store) buildThread(c *Comment, depth, maxDepth int, visited map[string]bool) (*Thread, error) {
	visited[c.ID] = true
	t := &Thread{Comment: c}

	if depth >= maxDepth {
		return t, nil
	}

	replies, err := s.ListReplies(c.ID)
	if err != nil {
		return nil, err
	}

	for _, r := range replies {
		if visited[r.ID] {
			// Parent cycle; break it here rather than revisit.
			continue
		}
		child, err := s.buildThread(r, depth+1, maxDepth, visited)
		if err != nil {
			return nil, err
		}
		t.Replies = append(t.Replies, child)
	}
	return t, nil
}
