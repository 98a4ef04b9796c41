package http

import (
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/adminsession"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/dynamo"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/otpsession"
	s3infra "github.com/dakshh-official/dakshh-api/internal/infrastructure/s3"
	"github.com/dakshh-official/dakshh-api/internal/infrastructure/smtp"
	"github.com/dakshh-official/dakshh-api/internal/pkg/qr"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	UserRepo         *dynamo.UserRepo
	AdminUserRepo    *dynamo.AdminUserRepo
	EventRepo        *dynamo.EventRepo
	RegistrationRepo *dynamo.RegistrationRepo
	S3Store          *s3infra.Store
	Mailer           smtp.Mailer
	Authority        *adminsession.Authority
	QRSigner         *qr.Signer
	// OTPSessions holds pending participant verification codes;
	// AdminOTPSessions holds the admin login codes. Separate stores so a
	// participant code can never satisfy an admin login.
	OTPSessions      *otpsession.Store
	AdminOTPSessions *otpsession.Store
}
