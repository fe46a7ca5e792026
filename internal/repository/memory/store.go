// Package memory holds map-backed repository implementations used by
// tests and local development. They honor the same contracts as the
// postgres repositories, including the conversion transaction and the
// optimistic update guard.
package memory

import (
	"sync"

	"pipeline-service/internal/domain/activity"
	"pipeline-service/internal/domain/campaign"
	"pipeline-service/internal/domain/deal"
	"pipeline-service/internal/domain/lead"
)

// Store is the shared backing state. A single mutex covers every
// collection so the lead conversion writes stay atomic.
type Store struct {
	mu sync.RWMutex

	deals      map[string]*deal.Deal
	leads      map[string]*lead.Lead
	campaigns  map[string]*campaign.Campaign
	activities []*activity.Entry
	userNames  map[string]map[string]string // companyID -> userID -> name
}

func NewStore() *Store {
	return &Store{
		deals:     make(map[string]*deal.Deal),
		leads:     make(map[string]*lead.Lead),
		campaigns: make(map[string]*campaign.Campaign),
		userNames: make(map[string]map[string]string),
	}
}

func (s *Store) Deals() *DealRepository         { return &DealRepository{s: s} }
func (s *Store) Leads() *LeadRepository         { return &LeadRepository{s: s} }
func (s *Store) Campaigns() *CampaignRepository { return &CampaignRepository{s: s} }
func (s *Store) Activities() *ActivityRepository {
	return &ActivityRepository{s: s}
}
func (s *Store) Users() *UserRepository { return &UserRepository{s: s} }

// SeedCampaign and SeedUser exist for test setup.
func (s *Store) SeedCampaign(c *campaign.Campaign) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *c
	s.campaigns[c.ID] = &cp
}

func (s *Store) SeedUser(companyID, userID, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.userNames[companyID] == nil {
		s.userNames[companyID] = make(map[string]string)
	}
	s.userNames[companyID][userID] = name
}

func copyDeal(d *deal.Deal) *deal.Deal {
	cp := *d
	if d.Tags != nil {
		cp.Tags = append(cp.Tags[:0:0], d.Tags...)
	}
	return &cp
}

func copyLead(l *lead.Lead) *lead.Lead {
	cp := *l
	return &cp
}

func copyCampaign(c *campaign.Campaign) *campaign.Campaign {
	cp := *c
	return &cp
}
