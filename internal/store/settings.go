package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cfoia/backend/internal/errs"
	"github.com/cfoia/backend/internal/models"
)

// Assistant settings are a top-level collection keyed by org ID so an
// inbound webhook can resolve the org from the receiving phone number.
type settingsStore struct {
	client *firestore.Client
}

func NewSettingsStore(client *firestore.Client) *settingsStore {
	return &settingsStore{client: client}
}

func (s *settingsStore) collection() *firestore.CollectionRef {
	return s.client.Collection("assistant_settings")
}

func (s *settingsStore) Get(ctx context.Context, orgID string) (*models.AssistantSettings, error) {
	doc, err := s.collection().Doc(orgID).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, errs.NewDatabaseError("read", "failed to get assistant settings")
	}
	var settings models.AssistantSettings
	if err := doc.DataTo(&settings); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse assistant settings")
	}
	return &settings, nil
}

func (s *settingsStore) FindByPhoneNumberID(ctx context.Context, phoneNumberID string) (*models.AssistantSettings, error) {
	iter := s.collection().
		Where("phoneNumberId", "==", phoneNumberID).
		Limit(1).
		Documents(ctx)
	defer iter.Stop()

	doc, err := iter.Next()
	if err == iterator.Done {
		return nil, nil
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to find assistant settings")
	}

	var settings models.AssistantSettings
	if err := doc.DataTo(&settings); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse assistant settings")
	}
	return &settings, nil
}

func (s *settingsStore) List(ctx context.Context) ([]models.AssistantSettings, error) {
	iter := s.collection().Documents(ctx)
	defer iter.Stop()

	var out []models.AssistantSettings
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, errs.NewDatabaseError("read", "failed to list assistant settings")
		}
		var settings models.AssistantSettings
		if err := doc.DataTo(&settings); err != nil {
			return nil, errs.NewDatabaseError("read", "failed to parse assistant settings")
		}
		out = append(out, settings)
	}
	return out, nil
}
