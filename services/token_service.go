// Package services, business logic katmanını barındırır.
//
// Service Layer Pattern nedir?
// Handler (HTTP) ile Repository (DB) arasında oturan katmandır.
// Tüm iş kuralları burada yaşar:
//   - Şifre hash'leme
//   - JWT token üretimi ve rotation
//   - Yetki kontrolleri
//
// Service ASLA http.Request/Response bilmez — sadece domain modelleri alır/verir.
// Service ASLA doğrudan SQL çalıştırmaz — Repository interface'i kullanır.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shareshelf/shareshelf/models"
	"github.com/shareshelf/shareshelf/pkg"
	"github.com/shareshelf/shareshelf/repository"
)

// TokenService — access/refresh token çiftinin tüm yaşam döngüsü.
//
// İki token, iki farklı sözleşme:
//   - Access token: 15 dakikalık, stateless. Doğrulama sadece imza + expiry
//     kontrolüdür, DB'ye hiç uğramaz. İçinde kullanıcı snapshot'ı taşır.
//   - Refresh token: 7 günlük, imzalı VE store'a kayıtlı. İmza tek başına
//     yeterli değildir — rotation ancak store'da canlı kaydı varsa başarılı
//     olur ve kayıt o anda silinir (tek kullanımlık).
//
// Rotation = "eskiyi tüket + yeni çift üret". Eski refresh token'ın kaydı
// atomik DELETE ile düşer; aynı token'la yarışan ikinci istek kaydı bulamaz
// ve reddedilir.
type TokenService interface {
	// Issue, kullanıcı için yeni bir access+refresh çifti üretir.
	// Refresh kaydı store'a yazılamazsa HİÇBİR token dönülmez —
	// persist edilmemiş bir refresh token client'a asla verilmez.
	Issue(ctx context.Context, user *models.User) (*TokenPair, error)

	// IssueAccess, SADECE access token üretir — store'a hiçbir şey yazılmaz.
	// Sign-in'in oturum koruma yolunda kullanılır: mevcut refresh cookie
	// geçerliyse yeni refresh kaydı açmanın anlamı yoktur.
	IssueAccess(user *models.User) (string, error)

	// Rotate, refresh token'ı doğrular, store'dan tüketir ve yeni çift üretir.
	// Dönen hatalar:
	//   - pkg.ErrInvalidToken / pkg.ErrExpiredToken: imza veya süre sorunu
	//   - pkg.ErrTokenNotFound: imza geçerli ama kayıt yok (zaten tüketilmiş)
	//   - pkg.ErrNotFound: rotation başarılı ama kullanıcı artık yok
	Rotate(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error)

	// VerifyAccessToken, imza + expiry kontrolü yapar. DB erişimi YOKTUR.
	VerifyAccessToken(tokenString string) (*models.AccessTokenClaims, error)

	// VerifyRefreshToken, refresh token'ın imzasını ve süresini kontrol eder.
	// Store'a BAKMAZ — tüketim Rotate/Revoke'un işidir.
	VerifyRefreshToken(tokenString string) (*models.RefreshTokenClaims, error)

	// Revoke, refresh token'ın store kaydını siler (signout).
	// Kayıt zaten yoksa hata dönmez — revoke idempotent'tir.
	Revoke(ctx context.Context, refreshToken string) error
}

// TokenPair, Issue/Rotate'in ürettiği imzalı token çifti.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type tokenService struct {
	userRepo      repository.UserRepository
	refreshRepo   repository.RefreshTokenRepository
	accessSecret  []byte
	refreshSecret []byte
	accessExp     time.Duration
	refreshExp    time.Duration
}

// NewTokenService, constructor.
//
// Expiry'ler time.Duration olarak alınır (dakika/gün çevirisi config
// katmanında yapılır) — testler sleep'e gerek kalmadan çok kısa veya
// negatif sürelerle süresi dolmuş token üretebilir.
func NewTokenService(
	userRepo repository.UserRepository,
	refreshRepo repository.RefreshTokenRepository,
	accessSecret, refreshSecret string,
	accessExp, refreshExp time.Duration,
) TokenService {
	return &tokenService{
		userRepo:      userRepo,
		refreshRepo:   refreshRepo,
		accessSecret:  []byte(accessSecret),
		refreshSecret: []byte(refreshSecret),
		accessExp:     accessExp,
		refreshExp:    refreshExp,
	}
}

// Issue, yeni bir access+refresh çifti üretir.
//
// Sıralama önemli: önce refresh token üretilip PERSIST edilir, access token
// ondan sonra imzalanır. Refresh kaydı yazılamadıysa çift hiç oluşmamış
// sayılır — yarım durum (access var, refresh yok) client'a sızmaz.
func (s *tokenService) Issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	refreshString, err := s.createRefreshToken(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	accessString, err := s.createAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessString,
		RefreshToken: refreshString,
	}, nil
}

// IssueAccess, tek başına access token üretir.
func (s *tokenService) IssueAccess(user *models.User) (string, error) {
	return s.createAccessToken(user)
}

// Rotate, refresh token'ı tek seferlik tüketip yeni çift üretir.
//
// Adımlar:
//  1. İmza + expiry doğrulaması (store'a bakmadan — bozuk token DB'ye uğramaz)
//  2. Atomik tüketim: kayıt DELETE edilir, silinmediyse token zaten kullanılmış
//  3. Kullanıcı yüklenir — rotation geçerli olsa bile hesap silinmiş olabilir
//  4. Yeni çift üretilir
//
// Eşzamanlı iki istek aynı token'la gelirse arbitrasyon 2. adımdadır:
// DELETE'i kazanan istek devam eder, kaybeden ErrTokenNotFound alır.
// Kaybeden istekte hiçbir yeni token üretilmez, hiçbir kayıt yazılmaz.
func (s *tokenService) Rotate(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	claims, err := s.VerifyRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, err
	}

	consumed, err := s.refreshRepo.Consume(ctx, refreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to consume refresh token: %w", err)
	}
	if !consumed {
		return nil, nil, fmt.Errorf("%w: already used or revoked", pkg.ErrTokenNotFound)
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			// Token tüketildi ama sahibi yok — yeni çift üretilmez.
			return nil, nil, fmt.Errorf("%w: user no longer exists", pkg.ErrNotFound)
		}
		return nil, nil, err
	}

	pair, err := s.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// VerifyAccessToken, access token'ı doğrular ve claims'i döner.
//
// Hata ayrımı loglama için önemlidir: bozuk imza (ErrInvalidToken) bir
// saldırı işareti olabilir, süre dolması (ErrExpiredToken) normal akıştır
// ve middleware'ın slow path'ini tetikler.
func (s *tokenService) VerifyAccessToken(tokenString string) (*models.AccessTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.AccessTokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.accessSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: access token", pkg.ErrExpiredToken)
		}
		return nil, fmt.Errorf("%w: %s", pkg.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*models.AccessTokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: malformed claims", pkg.ErrInvalidToken)
	}

	// İmza geçerli ama payload eksik — geçersiz sayılır, asla "anonim ama
	// doğrulanmış" bir kimlik üretilmez.
	if claims.User.ID == "" {
		return nil, fmt.Errorf("%w: missing user id", pkg.ErrInvalidToken)
	}

	return claims, nil
}

// VerifyRefreshToken, refresh token'ın imzasını doğrular.
// Store kontrolü YAPILMAZ — bu fonksiyon "token sahte mi?" sorusuna cevap
// verir, "token hâlâ canlı mı?" sorusuna değil.
func (s *tokenService) VerifyRefreshToken(tokenString string) (*models.RefreshTokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.RefreshTokenClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.refreshSecret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: refresh token", pkg.ErrExpiredToken)
		}
		return nil, fmt.Errorf("%w: %s", pkg.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*models.RefreshTokenClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("%w: malformed claims", pkg.ErrInvalidToken)
	}

	if claims.UserID == "" {
		return nil, fmt.Errorf("%w: missing user id", pkg.ErrInvalidToken)
	}

	return claims, nil
}

// Revoke, refresh token kaydını siler (signout).
//
// Token sahte veya süresi dolmuş olsa bile hata dönülmez: signout'un amacı
// "bu cookie'yle bir daha giriş yapılamasın" — zaten yapılamıyorsa iş bitti.
func (s *tokenService) Revoke(ctx context.Context, refreshToken string) error {
	if _, err := s.VerifyRefreshToken(refreshToken); err != nil {
		return nil
	}
	if _, err := s.refreshRepo.Consume(ctx, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

// ─── Private Helpers ───

// createAccessToken, kullanıcı snapshot'ını taşıyan access token'ı imzalar.
//
// Token'a User struct'ı DEĞİL, models.UserSnapshot gömülür — allow-list.
// Şifre hash'i gibi hassas alanların token'a sızması yapısal olarak imkânsızdır.
func (s *tokenService) createAccessToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &models.AccessTokenClaims{
		Ver:  models.ClaimsVersion,
		User: models.NewUserSnapshot(user),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessExp)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "shareshelf",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.accessSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// createRefreshToken, refresh token'ı imzalar ve store'a kaydeder.
//
// Kaydın expires_at değeri ayrı hesaplanmaz — imzalanan token'ın KENDİ exp
// claim'inden alınır. Kayıt ile token'ın süresi asla çelişemez.
//
// Persist başarısızsa üretilen token string'i ÇÖPTÜR: ErrTokenPersistence
// dönülür ve caller token'ı client'a vermez. İmzası geçerli ama kaydı
// olmayan bir token rotation'da zaten reddedilirdi; onu hiç dağıtmamak
// kullanıcıyı 7 gün sonra değil hemen uyarır.
func (s *tokenService) createRefreshToken(ctx context.Context, userID string) (string, error) {
	now := time.Now()
	expiresAt := now.Add(s.refreshExp)

	claims := &models.RefreshTokenClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    "shareshelf",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.refreshSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	record := &models.RefreshToken{
		Token:     signed,
		UserID:    userID,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if err := s.refreshRepo.Create(ctx, record); err != nil {
		return "", fmt.Errorf("%w: %s", pkg.ErrTokenPersistence, err.Error())
	}

	return signed, nil
}
