package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/AHKAYY007/Property-finder-dapp/internal/auth"
	"github.com/AHKAYY007/Property-finder-dapp/internal/cache"
	dom "github.com/AHKAYY007/Property-finder-dapp/internal/domain"
	"github.com/AHKAYY007/Property-finder-dapp/internal/repo"

	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyMinted = errors.New("property is already minted")
	ErrNotMinted     = errors.New("property must be minted first")
)

// FileStore pins content and returns its CID.
type FileStore interface {
	Add(ctx context.Context, filename string, content []byte) (string, error)
}

// Chain is the on-chain side of mint/list. Currently an explicitly
// unimplemented external integration.
type Chain interface {
	MintPropertyNFT(ctx context.Context, propertyID int64) (string, error)
	ListProperty(ctx context.Context, tokenID string) error
}

// Upload is one file received from a multipart request.
type Upload struct {
	Name    string
	Content []byte
}

// PropertyPatch holds optional property fields; nil = leave unchanged.
type PropertyPatch struct {
	Title       *string
	Description *string
	Price       *float64
	Currency    *string
	Location    *string
	Bedrooms    *int
	Bathrooms   *int
	Area        *float64
	Type        *string
	Images      []string
	Documents   []string
}

type PropertyService struct {
	repo  repo.PropertyRepo
	cache *cache.PropertyCache
	files FileStore
	chain Chain
	sf    singleflight.Group
}

// NewPropertyService creates a PropertyService. If c is nil, caching is disabled.
func NewPropertyService(r repo.PropertyRepo, c *cache.PropertyCache, files FileStore, chain Chain) *PropertyService {
	return &PropertyService{repo: r, cache: c, files: files, chain: chain}
}

// Create stores a new listing owned by user.
func (s *PropertyService) Create(ctx context.Context, user dom.User, p dom.Property) (dom.Property, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.OwnerID = user.ID
	p.OwnerAddress = user.SuiAddress
	if p.Currency == "" {
		p.Currency = "SUI"
	}
	out, err := s.repo.Create(ctx, p)
	if err != nil {
		return dom.Property{}, err
	}
	s.invalidateCache(ctx)
	return out, nil
}

func (s *PropertyService) GetByID(ctx context.Context, id int64) (dom.Property, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Property{}, ErrNotFound
		}
		return dom.Property{}, err
	}
	return p, nil
}

// Search returns the filtered, sorted page of listings. Results are cached;
// concurrent misses for the same filter collapse into one query.
func (s *PropertyService) Search(ctx context.Context, f dom.PropertyFilter) ([]dom.Property, error) {
	if s.cache == nil {
		return s.repo.Search(ctx, f)
	}
	key := cache.SearchKey(f)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if list, err := s.cache.GetSearch(ctx, f); err == nil && list != nil {
			return list, nil
		}
		list, err := s.repo.Search(ctx, f)
		if err != nil {
			return nil, err
		}
		_ = s.cache.SetSearch(ctx, f, list)
		return list, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dom.Property), nil
}

// Update applies the patch to a property the user owns.
func (s *PropertyService) Update(ctx context.Context, user dom.User, id int64, patch PropertyPatch) (dom.Property, error) {
	existing, err := s.ownedProperty(ctx, user, id)
	if err != nil {
		return dom.Property{}, err
	}

	next := existing
	if patch.Title != nil {
		next.Title = strings.TrimSpace(*patch.Title)
	}
	if patch.Description != nil {
		next.Description = *patch.Description
	}
	if patch.Price != nil {
		next.Price = *patch.Price
	}
	if patch.Currency != nil {
		next.Currency = *patch.Currency
	}
	if patch.Location != nil {
		next.Location = *patch.Location
	}
	if patch.Bedrooms != nil {
		next.Bedrooms = *patch.Bedrooms
	}
	if patch.Bathrooms != nil {
		next.Bathrooms = *patch.Bathrooms
	}
	if patch.Area != nil {
		next.Area = *patch.Area
	}
	if patch.Type != nil {
		next.Type = *patch.Type
	}
	if patch.Images != nil {
		next.Images = patch.Images
	}
	if patch.Documents != nil {
		next.Documents = patch.Documents
	}

	out, err := s.repo.Update(ctx, id, next)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Property{}, ErrNotFound
		}
		return dom.Property{}, err
	}
	s.invalidateCache(ctx)
	return out, nil
}

// UploadImages pins the files to IPFS and appends their CIDs to the
// property's image list. Owner only.
func (s *PropertyService) UploadImages(ctx context.Context, user dom.User, id int64, files []Upload) ([]string, error) {
	return s.upload(ctx, user, id, files, s.repo.AppendImages)
}

// UploadDocuments is UploadImages for the documents list.
func (s *PropertyService) UploadDocuments(ctx context.Context, user dom.User, id int64, files []Upload) ([]string, error) {
	return s.upload(ctx, user, id, files, s.repo.AppendDocuments)
}

func (s *PropertyService) upload(ctx context.Context, user dom.User, id int64, files []Upload,
	appendFn func(context.Context, int64, []string) (dom.Property, error)) ([]string, error) {

	if _, err := s.ownedProperty(ctx, user, id); err != nil {
		return nil, err
	}
	cids := make([]string, 0, len(files))
	for _, f := range files {
		cid, err := s.files.Add(ctx, f.Name, f.Content)
		if err != nil {
			return nil, fmt.Errorf("upload %s: %w", f.Name, err)
		}
		cids = append(cids, cid)
	}
	if _, err := appendFn(ctx, id, cids); err != nil {
		return nil, err
	}
	s.invalidateCache(ctx)
	return cids, nil
}

// Mint mints the property as an NFT. Preconditions are checked here; the
// actual transaction is delegated to the chain integration.
func (s *PropertyService) Mint(ctx context.Context, user dom.User, id int64) (string, error) {
	p, err := s.ownedProperty(ctx, user, id)
	if err != nil {
		return "", err
	}
	if p.Minted() {
		return "", ErrAlreadyMinted
	}
	tokenID, err := s.chain.MintPropertyNFT(ctx, id)
	if err != nil {
		return "", err
	}
	if _, err := s.repo.SetTokenID(ctx, id, tokenID); err != nil {
		return "", err
	}
	s.invalidateCache(ctx)
	return tokenID, nil
}

// List puts a minted property up for sale.
func (s *PropertyService) List(ctx context.Context, user dom.User, id int64) error {
	p, err := s.ownedProperty(ctx, user, id)
	if err != nil {
		return err
	}
	if !p.Minted() {
		return ErrNotMinted
	}
	if err := s.chain.ListProperty(ctx, *p.TokenID); err != nil {
		return err
	}
	if _, err := s.repo.SetListed(ctx, id, true); err != nil {
		return err
	}
	s.invalidateCache(ctx)
	return nil
}

// AddFavorite marks the property as a favorite of the user. Idempotent.
func (s *PropertyService) AddFavorite(ctx context.Context, userID, propertyID int64) error {
	if _, err := s.GetByID(ctx, propertyID); err != nil {
		return err
	}
	return s.repo.AddFavorite(ctx, userID, propertyID)
}

func (s *PropertyService) RemoveFavorite(ctx context.Context, userID, propertyID int64) error {
	return s.repo.RemoveFavorite(ctx, userID, propertyID)
}

func (s *PropertyService) Favorites(ctx context.Context, userID int64) ([]dom.Property, error) {
	return s.repo.ListFavorites(ctx, userID)
}

// ownedProperty loads the property and applies the ownership policy.
func (s *PropertyService) ownedProperty(ctx context.Context, user dom.User, id int64) (dom.Property, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return dom.Property{}, err
	}
	if err := auth.AuthorizeOwner(p.OwnerID, user.ID); err != nil {
		return dom.Property{}, err
	}
	return p, nil
}

func (s *PropertyService) invalidateCache(ctx context.Context) {
	if s.cache != nil {
		_ = s.cache.InvalidateAll(ctx)
	}
}
