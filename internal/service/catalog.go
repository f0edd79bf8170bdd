package service

import (
	"context"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/readstack/library-service/internal/errs"
	"github.com/readstack/library-service/internal/model"
)

func (s *Service) ListBooks(ctx context.Context, q model.ListQuery) (model.BookList, error) {
	var list model.BookList
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		items, err := s.repo.ListBooks(ctx, q)
		if err != nil {
			return err
		}
		list.Items = items
		return nil
	})
	gg.Go(func() error {
		total, err := s.repo.CountBooks(ctx, q.Search)
		if err != nil {
			return err
		}
		list.Total = total
		return nil
	})
	if err := gg.Wait(); err != nil {
		return model.BookList{}, err
	}
	return list, nil
}

func (s *Service) CountBooks(ctx context.Context, search string) (int, error) {
	return s.repo.CountBooks(ctx, search)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

// CreateBook accepts either an explicit author id or an author name which is
// looked up case-insensitively and auto-created when absent.
func (s *Service) CreateBook(ctx context.Context, req model.CreateBookRequest) (model.CreateBookResponse, error) {
	var (
		authorID      int
		authorCreated bool
	)
	switch {
	case req.AuthorID != nil:
		authorID = *req.AuthorID
	case req.AuthorName != nil && *req.AuthorName != "":
		author, err := s.repo.GetAuthorByName(ctx, normalizeTitle(*req.AuthorName))
		switch {
		case err == nil:
			authorID = author.ID
		case errors.Is(err, errs.ErrNotFound):
			author, err = s.repo.CreateAuthor(ctx, normalizeTitle(*req.AuthorName), nil)
			if err != nil {
				return model.CreateBookResponse{}, err
			}
			authorID = author.ID
			authorCreated = true
		default:
			return model.CreateBookResponse{}, err
		}
	default:
		return model.CreateBookResponse{}, errs.ErrAuthorRequired
	}

	book, err := s.repo.CreateBook(ctx, normalizeTitle(req.Title), authorID, req.Description)
	if err != nil {
		return model.CreateBookResponse{}, err
	}

	if req.Image != nil {
		key, err := s.uploadAsset(ctx, req.Image)
		if err != nil {
			return model.CreateBookResponse{}, err
		}
		if _, err := s.repo.SetBookImage(ctx, book.ID, key); err != nil {
			return model.CreateBookResponse{}, err
		}
		book.ImageKey = &key
	}
	return model.CreateBookResponse{Book: book, AuthorCreated: authorCreated}, nil
}

func (s *Service) UpdateBook(ctx context.Context, id int, req model.UpdateBookRequest) error {
	if req.Title != nil {
		normalized := normalizeTitle(*req.Title)
		req.Title = &normalized
	}
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id int) error {
	imageKey, err := s.repo.DeleteBook(ctx, id)
	if err != nil {
		return err
	}
	s.deleteAsset(ctx, imageKey)
	return nil
}

func (s *Service) SetBookImage(ctx context.Context, id int, file model.Upload) (string, error) {
	key, err := s.uploadAsset(ctx, &file)
	if err != nil {
		return "", err
	}
	old, err := s.repo.SetBookImage(ctx, id, key)
	if err != nil {
		s.deleteAsset(ctx, &key)
		return "", err
	}
	s.deleteAsset(ctx, old)
	return key, nil
}

func (s *Service) ListAuthors(ctx context.Context, q model.ListQuery) (model.AuthorList, error) {
	var list model.AuthorList
	gg, ctx := errgroup.WithContext(ctx)
	gg.Go(func() error {
		items, err := s.repo.ListAuthors(ctx, q)
		if err != nil {
			return err
		}
		list.Items = items
		return nil
	})
	gg.Go(func() error {
		total, err := s.repo.CountAuthors(ctx, q.Search)
		if err != nil {
			return err
		}
		list.Total = total
		return nil
	})
	if err := gg.Wait(); err != nil {
		return model.AuthorList{}, err
	}
	return list, nil
}

func (s *Service) CountAuthors(ctx context.Context, search string) (int, error) {
	return s.repo.CountAuthors(ctx, search)
}

func (s *Service) GetAuthor(ctx context.Context, id int) (model.Author, error) {
	return s.repo.GetAuthor(ctx, id)
}

func (s *Service) CreateAuthor(ctx context.Context, req model.CreateAuthorRequest) (model.Author, error) {
	author, err := s.repo.CreateAuthor(ctx, normalizeTitle(req.Name), req.Bio)
	if err != nil {
		return model.Author{}, err
	}
	if req.Image != nil {
		key, err := s.uploadAsset(ctx, req.Image)
		if err != nil {
			return model.Author{}, err
		}
		if _, err := s.repo.SetAuthorImage(ctx, author.ID, key); err != nil {
			return model.Author{}, err
		}
		author.ImageKey = &key
	}
	return author, nil
}

func (s *Service) UpdateAuthor(ctx context.Context, id int, req model.UpdateAuthorRequest) error {
	if req.Name != nil {
		normalized := normalizeTitle(*req.Name)
		req.Name = &normalized
	}
	return s.repo.UpdateAuthor(ctx, id, req)
}

func (s *Service) DeleteAuthor(ctx context.Context, id int) error {
	imageKey, err := s.repo.DeleteAuthor(ctx, id)
	if err != nil {
		return err
	}
	s.deleteAsset(ctx, imageKey)
	return nil
}

func (s *Service) SetAuthorImage(ctx context.Context, id int, file model.Upload) (string, error) {
	key, err := s.uploadAsset(ctx, &file)
	if err != nil {
		return "", err
	}
	old, err := s.repo.SetAuthorImage(ctx, id, key)
	if err != nil {
		s.deleteAsset(ctx, &key)
		return "", err
	}
	s.deleteAsset(ctx, old)
	return key, nil
}
