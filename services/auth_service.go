package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
	"github.com/shareshelf/shareshelf/pkg/email"
	"github.com/shareshelf/shareshelf/repository"
	"golang.org/x/crypto/bcrypt"
)

// AuthService — kayıt, giriş, çıkış ve profil işlemleri.
// Token üretiminin detayları TokenService'tedir; AuthService kimlik
// doğrulamasını yapar ve çifti ondan ister.
type AuthService interface {
	SignUp(ctx context.Context, req *models.SignUpRequest) (*models.User, *TokenPair, error)
	// SignIn, email+şifre doğrular. presentedRefresh, client'ın mevcut
	// refresh cookie'sidir (yoksa boş string) — imzası geçerliyse ve aynı
	// kullanıcıya aitse YENİ refresh üretilmez, mevcut cookie korunur.
	SignIn(ctx context.Context, req *models.SignInRequest, presentedRefresh string) (*models.User, *TokenPair, error)
	// SignOut, refresh token kaydını siler. Her durumda başarılı sayılır —
	// token sahte, süresi dolmuş veya zaten silinmiş olsa bile. Client'a
	// "çıkış yapılamadı" demenin anlamı yok; hata sadece loglanır.
	SignOut(ctx context.Context, refreshToken string)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	UpdateUser(ctx context.Context, userID string, req *models.UpdateUserRequest) (*models.User, error)
}

type authService struct {
	userRepo    repository.UserRepository
	tokenSvc    TokenService
	emailSender email.EmailSender // nil olabilir — email konfigüre edilmemişse
}

// NewAuthService, constructor.
// emailSender nil geçilebilir: welcome email opsiyonel bir özelliktir,
// local development'ta Resend key'i olmadan da signup çalışır.
func NewAuthService(
	userRepo repository.UserRepository,
	tokenSvc TokenService,
	emailSender email.EmailSender,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		tokenSvc:    tokenSvc,
		emailSender: emailSender,
	}
}

// SignUp, yeni kullanıcı kaydı oluşturur ve token çiftini döner.
func (s *authService) SignUp(ctx context.Context, req *models.SignUpRequest) (*models.User, *TokenPair, error) {
	// 1. Validation
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// 2. Bcrypt hash (cost=12)
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to hash password: %w", err)
	}

	// 3. User oluştur
	var contactNumber *string
	if req.ContactNumber != "" {
		contactNumber = &req.ContactNumber
	}

	var location *models.Location
	if req.City != "" || req.State != "" || req.Country != "" {
		location = &models.Location{
			City:    req.City,
			State:   req.State,
			Country: req.Country,
		}
	}

	user := &models.User{
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  string(hash),
		ContactNumber: contactNumber,
		Location:      location,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, nil, err // ErrAlreadyExists olabilir
	}

	// 4. Token çifti üret
	pair, err := s.tokenSvc.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	// 5. Welcome email — best effort, signup'ı asla bloklamaz.
	// request context'e bağlanmaz: response dönülünce context iptal olur,
	// email arka planda kendi timeout'u ile gönderilir.
	if s.emailSender != nil {
		go func(toEmail, username string) {
			emailCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := s.emailSender.SendWelcome(emailCtx, toEmail, username); err != nil {
				log.Printf("[auth] welcome email failed for %s: %v", username, err)
			}
		}(user.Email, user.Username)
	}

	user.PasswordHash = ""
	return user, pair, nil
}

// SignIn, email+şifre ile giriş yapar.
//
// Mevcut oturum korunur: client zaten imzası geçerli bir refresh cookie'siyle
// geliyorsa ve cookie aynı kullanıcıya aitse, yeni refresh ÜRETİLMEZ —
// sadece access token yenilenir. Böylece aynı tarayıcıdan arka arkaya
// sign-in yapmak store'da ölü kayıt biriktirmez.
//
// Cookie başka kullanıcıya aitse veya imza/süre geçersizse sessizce yok
// sayılır ve taze bir çift üretilir.
func (s *authService) SignIn(ctx context.Context, req *models.SignInRequest, presentedRefresh string) (*models.User, *TokenPair, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			// "Kullanıcı yok" ile "şifre yanlış" aynı mesajla dönülür —
			// hangi email'lerin kayıtlı olduğu sızdırılmaz.
			return nil, nil, fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, nil, fmt.Errorf("%w: invalid email or password", pkg.ErrUnauthorized)
	}

	pair, err := s.restoreOrIssue(ctx, user, presentedRefresh)
	if err != nil {
		return nil, nil, err
	}

	user.PasswordHash = ""
	return user, pair, nil
}

// SignOut, refresh token kaydını siler. Dönüş değeri yoktur — çıkış her
// zaman başarılıdır, iç hatalar sadece loglanır.
func (s *authService) SignOut(ctx context.Context, refreshToken string) {
	if refreshToken == "" {
		return
	}
	if err := s.tokenSvc.Revoke(ctx, refreshToken); err != nil {
		log.Printf("[auth] signout revoke failed: %v", err)
	}
}

// GetUser, kullanıcı profilini döner.
func (s *authService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

// UpdateUser, dolu gelen alanları günceller ve güncel profili döner.
func (s *authService) UpdateUser(ctx context.Context, userID string, req *models.UpdateUserRequest) (*models.User, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %s", pkg.ErrBadRequest, err.Error())
	}

	// Şifre güncelleniyorsa repository'ye hash gider, plaintext değil.
	if req.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), 12)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		hashed := string(hash)
		req.Password = &hashed
	}

	if err := s.userRepo.Update(ctx, userID, req); err != nil {
		return nil, err
	}

	return s.GetUser(ctx, userID)
}

// ─── Private Helpers ───

// restoreOrIssue, sign-in sırasında token çiftine karar verir.
//
// Presented cookie'nin SADECE imzası ve süresi kontrol edilir, store'a
// bakılmaz: amaç mevcut oturumu korumak, token'ı tüketmek değil. Store'da
// kaydı çoktan silinmiş bir cookie burada "geçerli" görünebilir — zararı
// yok, ilk rotation denemesinde reddedilir ve client yeniden sign-in yapar.
func (s *authService) restoreOrIssue(ctx context.Context, user *models.User, presentedRefresh string) (*TokenPair, error) {
	if presentedRefresh != "" {
		claims, err := s.tokenSvc.VerifyRefreshToken(presentedRefresh)
		if err == nil && claims.UserID == user.ID {
			access, err := s.tokenSvc.IssueAccess(user)
			if err != nil {
				return nil, err
			}
			return &TokenPair{AccessToken: access, RefreshToken: presentedRefresh}, nil
		}
	}

	return s.tokenSvc.Issue(ctx, user)
}
