package directory

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
)

const defaultPhotoExtension = "jpg"

// AttachPhoto stores data as member-<id>.<ext> in the managed image directory, overwriting any
// earlier upload with the same name, and points the member's ImageURL at it.
func (s *Service) AttachPhoto(ctx context.Context, id uint, filename string, data []byte) (*Member, error) {
	if len(data) == 0 {
		return nil, &ValidationError{Field: "image", Message: ErrEmptyFile.Error()}
	}

	member, err := s.repo.GetMemberByID(ctx, id)
	if err != nil {
		return nil, storageErr("get member", err)
	}

	name := PhotoFilename(id, filename)
	path, err := s.images.Save(ctx, name, data)
	if err != nil {
		return nil, storageErr("save member image", err)
	}

	now := s.now()
	if err := s.repo.UpdateMemberImage(ctx, id, path, now); err != nil {
		return nil, storageErr("update member image", err)
	}

	// a re-upload with another extension would otherwise leave the old file behind
	if previous := member.ImageURL; previous != nil && *previous != path {
		s.releaseImage(ctx, id, *previous)
	}

	member.ImageURL = &path
	member.UpdatedAt = now

	s.metrics.PhotoAttached()
	s.log.Info("directory: member photo attached", "member_id", id, "path", path, "bytes", len(data))
	return member, nil
}

// PhotoFilename derives the deterministic stored name for a member photo.
func PhotoFilename(id uint, uploadedName string) string {
	return fmt.Sprintf("member-%d.%s", id, photoExtension(uploadedName))
}

func photoExtension(uploadedName string) string {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(strings.TrimSpace(uploadedName)), "."))
	if ext == "" || len(ext) > 10 {
		return defaultPhotoExtension
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return defaultPhotoExtension
		}
	}
	return ext
}

// releaseImage removes a managed image once no member references it any more. Imported rows can
// share a path with the member they were exported from. Failures are logged, not returned.
func (s *Service) releaseImage(ctx context.Context, memberID uint, publicPath string) {
	if !s.images.Owns(publicPath) {
		return
	}

	refs, err := s.repo.CountMembersByImage(ctx, publicPath)
	if err != nil {
		s.log.InternalError("directory: count image references failed", err, "member_id", memberID, "path", publicPath)
		return
	}
	if refs > 0 {
		s.log.Debug("directory: image still referenced", "member_id", memberID, "path", publicPath, "refs", refs)
		return
	}

	if err := s.images.Delete(ctx, publicPath); err != nil {
		s.log.InternalError("directory: delete member image failed", err, "member_id", memberID, "path", publicPath)
	}
}
