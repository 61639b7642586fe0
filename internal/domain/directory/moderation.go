package directory

import "context"

func (s *Service) Approve(ctx context.Context, id uint, actorID string) (*Member, error) {
	return s.moderate(ctx, id, StatusApproved, actorID)
}

func (s *Service) Reject(ctx context.Context, id uint, actorID string) (*Member, error) {
	return s.moderate(ctx, id, StatusRejected, actorID)
}

// moderate is the only writer of Member.Status. Re-applying the current status is a no-op;
// moving between APPROVED and REJECTED is allowed, returning to PENDING is not offered.
func (s *Service) moderate(ctx context.Context, id uint, status Status, actorID string) (*Member, error) {
	member, err := s.repo.GetMemberByID(ctx, id)
	if err != nil {
		return nil, storageErr("get member", err)
	}

	if member.Status == status {
		return member, nil
	}

	now := s.now()
	if err := s.repo.UpdateMemberStatus(ctx, id, status, actorID, now); err != nil {
		return nil, storageErr("update member status", err)
	}

	previous := member.Status
	member.Status = status
	member.ModeratedAt = &now
	member.UpdatedAt = now
	if actorID != "" {
		member.ModeratedBy = &actorID
	}

	s.metrics.MemberModerated(status)
	s.log.Info("directory: member moderated", "member_id", id, "from", previous, "to", status, "actor", actorID)
	return member, nil
}
