package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jengzang/safeguard-backend/internal/models"
)

// VerificationService handles identity document submissions
type VerificationService struct {
	users         UserStore
	verifications VerificationStore
	ocr           TextExtractor
	keyword       string
	log           *zap.Logger
	now           func() time.Time
}

// NewVerificationService creates a verification service. With a nil ocr every
// submission stays pending.
func NewVerificationService(users UserStore, verifications VerificationStore, ocr TextExtractor, keyword string, log *zap.Logger) *VerificationService {
	return &VerificationService{
		users:         users,
		verifications: verifications,
		ocr:           ocr,
		keyword:       strings.ToLower(strings.TrimSpace(keyword)),
		log:           log,
		now:           time.Now,
	}
}

// decodeImage accepts raw base64 or a data URL
func decodeImage(data string) ([]byte, error) {
	if i := strings.Index(data, ","); i >= 0 {
		data = data[i+1:]
	}
	data = strings.TrimSpace(data)

	img, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		img, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(data, "="))
	}
	if err != nil || len(img) == 0 {
		return nil, models.Validation("Invalid image data")
	}
	return img, nil
}

// Submit stores a verification record for the user. Only the image digest and size are kept.
func (s *VerificationService) Submit(ctx context.Context, req models.VerificationRequest) (*models.Verification, error) {
	if strings.TrimSpace(req.UserID) == "" || strings.TrimSpace(req.ImageData) == "" {
		return nil, models.Validation("User ID and image data are required")
	}

	if _, err := s.users.GetByID(ctx, req.UserID); err != nil {
		return nil, err
	}

	img, err := decodeImage(req.ImageData)
	if err != nil {
		return nil, err
	}
	sum := sha256.Sum256(img)

	v := &models.Verification{
		ID:          uuid.NewString(),
		UserID:      req.UserID,
		ImageSHA256: hex.EncodeToString(sum[:]),
		ImageSize:   len(img),
		Status:      models.VerificationPending,
		CreatedAt:   s.now().UTC(),
	}

	if s.ocr != nil && s.keyword != "" {
		text, err := s.ocr.ExtractText(ctx, img)
		if err != nil {
			s.log.Warn("OCR failed, leaving verification pending", zap.String("user_id", req.UserID), zap.Error(err))
		} else {
			v.ExtractedText = text
			if strings.Contains(strings.ToLower(text), s.keyword) {
				v.Status = models.VerificationApproved
			} else {
				v.Status = models.VerificationRejected
			}
		}
	}

	if err := s.verifications.Create(ctx, v); err != nil {
		return nil, err
	}

	if v.Status == models.VerificationApproved {
		if err := s.users.SetVerified(ctx, req.UserID, true); err != nil {
			return nil, err
		}
	}

	s.log.Info("Verification submitted", zap.String("user_id", req.UserID), zap.String("status", v.Status))
	return v, nil
}

// Status returns the latest submission of the user, or a not_submitted placeholder
func (s *VerificationService) Status(ctx context.Context, userID string) (*models.Verification, error) {
	v, err := s.verifications.LatestByUser(ctx, userID)
	if isNotFound(err) {
		return &models.Verification{UserID: userID, Status: models.VerificationNotSubmitted}, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
