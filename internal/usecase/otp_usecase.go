package usecase

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"time"

	"gallery/internal/domain/model"
	repo "gallery/internal/repository"
)

// 現在時刻の供給。テストで固定できるようにする
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// コードの届け先（本番はSMTP、開発はコンソール）
type CodeSender interface {
	SendCode(ctx context.Context, toEmail string, code string) error
}

const (
	otpLength     = 6
	defaultOtpTTL = 10 * time.Minute
)

type OtpUsecase struct {
	otpRepo  repo.OneTimeCodeRepository
	userRepo repo.UserRepository
	sender   CodeSender
	clock    Clock
	ttl      time.Duration
}

func NewOtpUsecase(
	otpRepo repo.OneTimeCodeRepository,
	userRepo repo.UserRepository,
	sender CodeSender,
	clock Clock,
	ttl time.Duration,
) *OtpUsecase {
	if ttl <= 0 {
		ttl = defaultOtpTTL
	}
	return &OtpUsecase{
		otpRepo:  otpRepo,
		userRepo: userRepo,
		sender:   sender,
		clock:    clock,
		ttl:      ttl,
	}
}

// 6桁のコードを発行して帯域外（メール）で送る。
// 再発行しても古い行は消さない。検証時に新しい行が一致すればよい
func (u *OtpUsecase) Issue(ctx context.Context, userID int64, purpose model.OtpPurpose) error {
	if userID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err == repo.ErrUserNotFound {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	code, err := generateNumericCode(otpLength)
	if err != nil {
		return NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	now := u.clock.Now()
	if err := u.otpRepo.Create(ctx, model.OneTimeCode{
		UserID:    userID,
		Purpose:   purpose,
		Code:      code,
		ExpiresAt: now.Add(u.ttl),
		Used:      false,
		CreatedAt: now,
	}); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}

	if err := u.sender.SendCode(ctx, user.Email, code); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "mail error")
	}
	return nil
}

// 一致する未使用・期限内のコードを1回だけ消費する。
// 失敗理由（期限切れ/使用済み/不一致）は呼び出し側にもクライアントにも区別させない
func (u *OtpUsecase) Verify(ctx context.Context, userID int64, purpose model.OtpPurpose, code string) (bool, error) {
	if userID <= 0 || len(code) != otpLength {
		return false, nil
	}

	ok, err := u.otpRepo.Consume(ctx, userID, purpose, code, u.clock.Now())
	if err != nil {
		return false, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return ok, nil
}

// crypto/randで0埋め数字コードを作る
func generateNumericCode(length int) (string, error) {
	max := big.NewInt(1)
	for i := 0; i < length; i++ {
		max.Mul(max, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
