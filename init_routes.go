// Package main — HTTP route registration.
//
// initRoutes, tüm API endpoint'lerini mux'a bağlar.
// Session middleware chain helper'ı burada tanımlıdır:
//   - session: cookie tabanlı access/refresh token doğrulaması
package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/shareshelf/shareshelf/config"
	"github.com/shareshelf/shareshelf/middleware"
)

// initRoutes, middleware chain'i kurar ve tüm endpoint'leri mux'a bağlar.
//
// Route sıralama kuralı: Literal path'ler parametrik path'lerden ÖNCE tanımlanmalı.
// Örnek: "/api/resources/upload-resource" → "/api/resources/{id}" öncesinde,
// yoksa Go router "upload-resource" kelimesini bir id olarak yorumlar.
func initRoutes(
	mux *http.ServeMux,
	h *Handlers,
	sessionMw *middleware.SessionMiddleware,
	cfg *config.Config,
) {
	// ─── Middleware Chain Helper ───
	session := func(handler http.HandlerFunc) http.Handler {
		return sessionMw.Require(http.HandlerFunc(handler))
	}

	// Health check
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"shareshelf"}`)
	})

	// Auth — public endpoint'ler (cookie set/clear burada yapılır)
	mux.HandleFunc("POST /api/auth/signup", h.Auth.SignUp)
	mux.HandleFunc("POST /api/auth/signin", h.Auth.SignIn)
	mux.HandleFunc("POST /api/auth/signout", h.Auth.SignOut)

	// Auth — session gerektiren endpoint'ler
	mux.Handle("GET /api/auth/user", session(h.Auth.User))
	mux.Handle("POST /api/auth/update-user", session(h.Auth.UpdateUser))

	// Resources — listeleme ve detay herkese açık (pazaryeri vitrini),
	// yeni kaynak yükleme oturum gerektirir.
	// upload-resource literal'i {id} pattern'inden ÖNCE gelir.
	mux.Handle("POST /api/resources/upload-resource", session(h.Resource.Upload))
	mux.HandleFunc("GET /api/resources", h.Resource.List)
	mux.HandleFunc("GET /api/resources/{id}", h.Resource.Get)

	// Payments — intent oluşturma ve durum sorgulama oturum gerektirir.
	// Webhook PUBLIC'tir: Stripe cookie göndermez, istek Stripe-Signature
	// header'ındaki HMAC imzası ile doğrulanır.
	mux.Handle("POST /api/payment/create-payment-intent", session(h.Payment.CreatePaymentIntent))
	mux.Handle("GET /api/payment/payment-status/{paymentIntentId}", session(h.Payment.PaymentStatus))
	mux.HandleFunc("POST /api/payment/webhook", h.Payment.Webhook)

	// Static file serving — yüklenen dosyalara erişim
	//
	// http.StripPrefix: URL'den "/api/uploads/" kısmını çıkarır.
	// http.FileServer: Kalan path'i upload dizininde dosya olarak arar.
	// Örnek: GET /api/uploads/abc123.pdf → ./data/uploads/abc123.pdf
	//
	// Path traversal koruması:
	// http.FileServer zaten ".." path'lerini reddeder.
	// Ek güvenlik için sadece dosya isimlerini kabul edip subdirectory'leri reddediyoruz.
	uploadsHandler := http.StripPrefix("/api/uploads/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.Contains(r.URL.Path, "/") || strings.Contains(r.URL.Path, "\\") {
			http.NotFound(w, r)
			return
		}
		http.FileServer(http.Dir(cfg.Upload.Dir)).ServeHTTP(w, r)
	}))
	mux.Handle("GET /api/uploads/", uploadsHandler)

	// WebSocket — access token query parameter ile authenticate edilir
	//
	// Neden session middleware kullanmıyoruz?
	// WebSocket upgrade sırasında tarayıcılar custom HTTP header gönderemez
	// ve refresh rotation'ın cookie yazması upgrade response'u ile çakışır.
	// Bu yüzden access token URL query parameter olarak gönderilir:
	//   ws://server/ws?token=ACCESS_TOKEN
	// WS handler kendi içinde token doğrulaması yapar.
	mux.HandleFunc("GET /ws", h.WS.HandleConnection)
}
