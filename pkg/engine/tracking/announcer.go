package tracking

// MaybeAnnounce announcement instruksi step sekarang, maksimal sekali per instruksi yang berbeda.
func (s *Session) MaybeAnnounce() (Announcement, bool) {
	if s.mode != Navigating {
		s.lastAnnouncedInstruction = nil
		return Announcement{}, false
	}
	step, ok := s.activeRoute.Step(s.currentStepIndex)
	if !ok {
		return Announcement{}, false
	}
	text := step.Maneuver.Instruction
	if s.lastAnnouncedInstruction != nil && *s.lastAnnouncedInstruction == text {
		return Announcement{}, false
	}
	s.lastAnnouncedInstruction = &text

	remaining := step.Distance
	if s.lastKnownLocation != nil {
		remaining = RemainingDistanceInStep(step, *s.lastKnownLocation)
	}
	return Announcement{Text: text, RemainingMeters: remaining}, true
}
