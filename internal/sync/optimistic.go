package sync

// runOptimistic is the reusable optimistic-transaction shape: apply the
// local change immediately, attempt the remote write, and on failure restore
// the exact pre-mutation snapshot. The rollback is always total, never a
// partial merge.
//
// apply and restore run under the session mutex; remote runs outside it.
// Callers capture the snapshot in the restore closure before calling.
func (s *Session) runOptimistic(apply, restore func(), remote func() error) error {
	s.mu.Lock()
	apply()
	s.mu.Unlock()

	if err := remote(); err != nil {
		s.mu.Lock()
		restore()
		s.mu.Unlock()
		return err
	}
	return nil
}
