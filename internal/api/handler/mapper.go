package handler

import (
	"github.com/bookkeep/library-records/internal/core/domain"
	"github.com/bookkeep/library-records/internal/core/ports"
)

// --- Request → Service input ---

func toBookInput(req bookRequest) ports.BookInput {
	return ports.BookInput{
		Title:           req.Title,
		Author:          req.Author,
		PublishedYear:   req.PublishedYear,
		AvailableCopies: req.AvailableCopies,
	}
}

func toMemberInput(req memberRequest) ports.MemberInput {
	return ports.MemberInput{
		Name:       req.Name,
		Email:      req.Email,
		JoinedDate: req.JoinedDate,
	}
}

// --- Domain → Response ---

func toBookResponse(b *domain.Book) bookResponse {
	return bookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		PublishedYear:   b.PublishedYear,
		AvailableCopies: b.AvailableCopies,
		IsAvailable:     b.IsAvailable,
	}
}

func toBookResponses(books []domain.Book) []bookResponse {
	out := make([]bookResponse, 0, len(books))
	for i := range books {
		out = append(out, toBookResponse(&books[i]))
	}
	return out
}

func toMemberResponse(m *domain.Member) memberResponse {
	return memberResponse{
		ID:         m.ID,
		Name:       m.Name,
		Email:      m.Email,
		JoinedDate: m.JoinedDate,
		Role:       m.Role,
	}
}

func toMemberResponses(members []domain.Member) []memberResponse {
	out := make([]memberResponse, 0, len(members))
	for i := range members {
		out = append(out, toMemberResponse(&members[i]))
	}
	return out
}

func toBorrowResponse(r *ports.BorrowResult) borrowResponse {
	return borrowResponse{
		Message:    r.Message,
		Member:     r.MemberName,
		Book:       r.BookTitle,
		BorrowDate: r.BorrowDate,
	}
}
