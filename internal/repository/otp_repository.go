package repository

import (
	"context"
	"time"

	"gallery/internal/domain/model"
)

type OneTimeCodeRepository interface {
	//発行のたびに新しい行を作る
	Create(ctx context.Context, code model.OneTimeCode) error

	// 一致する未使用・期限内の行を1つだけ使用済みへ（条件付きUPDATE）。
	// 一致しなければfalse。理由は区別しない
	Consume(ctx context.Context, userID int64, purpose model.OtpPurpose, code string, now time.Time) (bool, error)
}

type PendingRegistrationRepository interface {
	Create(ctx context.Context, pending model.PendingRegistration) error

	//期限内の未使用行をトークンで取得
	FindActiveByToken(ctx context.Context, token string, now time.Time) (model.PendingRegistration, error)

	//未使用のときだけ使用済みへ。二重消費はfalse
	MarkUsed(ctx context.Context, id int64) (bool, error)
}
