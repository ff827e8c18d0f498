package metrics

// IncrementBoardCreated increments board creation counter
func (m *Metrics) IncrementBoardCreated() {
	m.safeExecute("IncrementBoardCreated", func() {
		m.BoardCreatedTotal.Inc()
	})
}

// IncrementFeatureRequestCreated increments feature request creation counter
func (m *Metrics) IncrementFeatureRequestCreated() {
	m.safeExecute("IncrementFeatureRequestCreated", func() {
		m.FeatureRequestCreatedTotal.Inc()
	})
}

// IncrementCommentCreated increments comment creation counter
func (m *Metrics) IncrementCommentCreated() {
	m.safeExecute("IncrementCommentCreated", func() {
		m.CommentCreatedTotal.Inc()
	})
}

// RecordUpvoteToggle counts a toggle; upvoted is the resulting state
func (m *Metrics) RecordUpvoteToggle(upvoted bool) {
	m.safeExecute("RecordUpvoteToggle", func() {
		direction := "removed"
		if upvoted {
			direction = "added"
		}
		m.UpvoteTogglesTotal.WithLabelValues(direction).Inc()
	})
}

// SetBoardsTotal sets total boards gauge
func (m *Metrics) SetBoardsTotal(count int64) {
	m.safeExecute("SetBoardsTotal", func() {
		m.BoardsTotal.Set(float64(count))
	})
}

// SetFeatureRequestsTotal sets total feature requests gauge
func (m *Metrics) SetFeatureRequestsTotal(count int64) {
	m.safeExecute("SetFeatureRequestsTotal", func() {
		m.FeatureRequestsTotal.Set(float64(count))
	})
}

// SetUpvotesTotal sets total upvotes gauge
func (m *Metrics) SetUpvotesTotal(count int64) {
	m.safeExecute("SetUpvotesTotal", func() {
		m.UpvotesTotal.Set(float64(count))
	})
}

// SetCommentsTotal sets total comments gauge
func (m *Metrics) SetCommentsTotal(count int64) {
	m.safeExecute("SetCommentsTotal", func() {
		m.CommentsTotal.Set(float64(count))
	})
}

// SetCounterDrift records how many requests have a mismatching counter
func (m *Metrics) SetCounterDrift(counter string, rows int) {
	m.safeExecute("SetCounterDrift", func() {
		m.CounterDrift.WithLabelValues(counter).Set(float64(rows))
	})
}
