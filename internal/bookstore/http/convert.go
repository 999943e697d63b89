package http

import (
	"github.com/aussiebroadwan/bookstore/internal/bookstore/domain"
	"github.com/aussiebroadwan/bookstore/internal/bookstore/service"
	"github.com/aussiebroadwan/bookstore/pkg/storesdk"
)

func toUser(p domain.AccountProfile) storesdk.User {
	return storesdk.User{
		ID:         p.ID,
		Username:   p.Username,
		Email:      p.Email,
		Role:       string(p.Role),
		OTPEnabled: p.OTPEnabled,
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
}

func toUsers(ps []domain.AccountProfile) []storesdk.User {
	out := make([]storesdk.User, len(ps))
	for i, p := range ps {
		out[i] = toUser(p)
	}
	return out
}

func fullSessionResponse(msg string, s service.FullSession) storesdk.AuthResponse {
	return storesdk.AuthResponse{
		Message:   msg,
		Token:     s.Token.Raw,
		ExpiresAt: s.Token.ExpiresAt,
		User:      toUser(s.Account),
	}
}

func toBook(b domain.Book) storesdk.Book {
	return storesdk.Book{
		ID:            b.ID,
		Title:         b.Title,
		Author:        b.Author,
		Genre:         b.Genre,
		YearPublished: b.YearPublished,
		PriceCents:    b.PriceCents,
		PublisherID:   b.PublisherID,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toBooks(bs []domain.Book) []storesdk.Book {
	out := make([]storesdk.Book, len(bs))
	for i, b := range bs {
		out[i] = toBook(b)
	}
	return out
}

func fromBookRequest(req storesdk.BookRequest) service.BookInput {
	return service.BookInput{
		Title:         req.Title,
		Author:        req.Author,
		Genre:         req.Genre,
		YearPublished: req.YearPublished,
		PriceCents:    req.PriceCents,
		PublisherID:   req.PublisherID,
	}
}

func toPublisher(p domain.Publisher) storesdk.Publisher {
	return storesdk.Publisher{
		ID:          p.ID,
		CompanyName: p.CompanyName,
		Country:     p.Country,
		City:        p.City,
		Genre:       p.Genre,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toPublishers(ps []domain.Publisher) []storesdk.Publisher {
	out := make([]storesdk.Publisher, len(ps))
	for i, p := range ps {
		out[i] = toPublisher(p)
	}
	return out
}

func fromPublisherRequest(req storesdk.PublisherRequest) service.PublisherInput {
	return service.PublisherInput{
		CompanyName: req.CompanyName,
		Country:     req.Country,
		City:        req.City,
		Genre:       req.Genre,
	}
}

func toOrder(o domain.Order) storesdk.Order {
	books := make([]storesdk.OrderBook, len(o.Books))
	for i, b := range o.Books {
		books[i] = storesdk.OrderBook{
			ID:            b.ID,
			Title:         b.Title,
			Author:        b.Author,
			Genre:         b.Genre,
			YearPublished: b.YearPublished,
		}
	}
	return storesdk.Order{
		ID:        o.ID,
		UserID:    o.AccountID,
		Status:    string(o.Status),
		Books:     books,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

func toOrdersWithOwner(os []domain.OrderWithOwner) []storesdk.Order {
	out := make([]storesdk.Order, len(os))
	for i, o := range os {
		out[i] = toOrder(o.Order)
		out[i].Owner = &storesdk.OrderOwner{
			ID:       o.AccountID,
			Username: o.Username,
			Email:    o.Email,
		}
	}
	return out
}
