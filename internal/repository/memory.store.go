package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/bencohensolal/seniorhub/internal/domain"
	"github.com/bencohensolal/seniorhub/pkg/xerrors"
)

// MemoryStore is the map-backed store used in development mode and tests.
// A single mutex guards all collections; the status guards inside each
// mutating method give the same compare-and-swap discipline as the SQL
// conditional updates in the pgx repositories.
type MemoryStore struct {
	mu          sync.Mutex
	households  map[string]domain.Household
	members     map[string]domain.Member
	invitations map[string]domain.Invitation
	medications map[string]domain.Medication
	reminders   map[string]domain.MedicationReminder
	auditEvents []domain.AuditEvent
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		households:  make(map[string]domain.Household),
		members:     make(map[string]domain.Member),
		invitations: make(map[string]domain.Invitation),
		medications: make(map[string]domain.Medication),
		reminders:   make(map[string]domain.MedicationReminder),
	}
}

// ---- households ----

func (s *MemoryStore) CreateHousehold(_ context.Context, h domain.Household) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.households[h.ID] = h
	return nil
}

func (s *MemoryStore) FindHouseholdByID(_ context.Context, id string) (domain.Household, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.households[id]
	if !ok {
		return domain.Household{}, xerrors.NotFound("Household not found.")
	}
	return h, nil
}

// ---- members ----

func (s *MemoryStore) CreateMember(_ context.Context, m domain.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.ID] = m
	return nil
}

func (s *MemoryStore) FindActiveMember(_ context.Context, userID, householdID string) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.UserID == userID && m.HouseholdID == householdID && m.Status == domain.MemberActive {
			return m, nil
		}
	}
	return domain.Member{}, xerrors.NotFound("Member not found.")
}

func (s *MemoryStore) FindMemberByUser(_ context.Context, userID, householdID string) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.members {
		if m.UserID == userID && m.HouseholdID == householdID {
			return m, nil
		}
	}
	return domain.Member{}, xerrors.NotFound("Member not found.")
}

func (s *MemoryStore) FindMemberByID(_ context.Context, id string) (domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[id]
	if !ok {
		return domain.Member{}, xerrors.NotFound("Member not found.")
	}
	return m, nil
}

func (s *MemoryStore) ListMembers(_ context.Context, householdID string) ([]domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Member
	for _, m := range s.members {
		if m.HouseholdID == householdID && m.Status == domain.MemberActive {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) ListUserMemberships(_ context.Context, userID string) ([]domain.Member, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Member
	for _, m := range s.members {
		if m.UserID == userID && m.Status == domain.MemberActive {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) CountActiveCaregivers(_ context.Context, householdID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	count := 0
	for _, m := range s.members {
		if m.HouseholdID == householdID && m.Status == domain.MemberActive && m.Role == domain.RoleCaregiver {
			count++
		}
	}
	return count, nil
}

func (s *MemoryStore) UpdateMemberRole(_ context.Context, memberID string, role domain.HouseholdRole, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID]
	if !ok || m.Status != domain.MemberActive {
		return xerrors.NotFound("Member not found.")
	}
	m.Role = role
	m.UpdatedAt = now
	s.members[memberID] = m
	return nil
}

func (s *MemoryStore) SetMemberStatus(_ context.Context, memberID string, status domain.MemberStatus, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID]
	if !ok {
		return xerrors.NotFound("Member not found.")
	}
	m.Status = status
	m.UpdatedAt = now
	s.members[memberID] = m
	return nil
}

func (s *MemoryStore) ReactivateMember(_ context.Context, memberID string, role domain.HouseholdRole, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.members[memberID]
	if !ok {
		return xerrors.NotFound("Member not found.")
	}
	m.Status = domain.MemberActive
	m.Role = role
	m.UpdatedAt = now
	s.members[memberID] = m
	return nil
}

// ---- invitations ----

func (s *MemoryStore) CreateInvitation(_ context.Context, inv domain.Invitation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.invitations[inv.ID] = inv
	return nil
}

func (s *MemoryStore) FindInvitationByToken(_ context.Context, token string) (domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invitations {
		if inv.Token == token {
			return inv, nil
		}
	}
	return domain.Invitation{}, xerrors.NotFound("Invitation not found.")
}

func (s *MemoryStore) FindInvitationByID(_ context.Context, id string) (domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[id]
	if !ok {
		return domain.Invitation{}, xerrors.NotFound("Invitation not found.")
	}
	return inv, nil
}

func (s *MemoryStore) FindPendingInvitation(_ context.Context, householdID, email string) (domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, inv := range s.invitations {
		if inv.HouseholdID == householdID && inv.InviteeEmail == email && inv.Status == domain.InvitationPending {
			return inv, nil
		}
	}
	return domain.Invitation{}, xerrors.NotFound("Invitation not found.")
}

func (s *MemoryStore) FindPendingInvitationsByEmail(_ context.Context, email string) ([]domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Invitation
	for _, inv := range s.invitations {
		if inv.InviteeEmail == email && inv.Status == domain.InvitationPending {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) ListHouseholdInvitations(_ context.Context, householdID string) ([]domain.Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Invitation
	for _, inv := range s.invitations {
		if inv.HouseholdID == householdID {
			out = append(out, inv)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) TransitionStatus(_ context.Context, id string, to domain.InvitationStatus, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[id]
	if !ok {
		return xerrors.NotFound("Invitation not found.")
	}
	if inv.Status != domain.InvitationPending {
		return xerrors.Conflict("Invitation is not pending.")
	}
	inv.Status = to
	inv.UpdatedAt = now
	s.invitations[id] = inv
	return nil
}

func (s *MemoryStore) ReissueToken(_ context.Context, id, token string, expiresAt, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	inv, ok := s.invitations[id]
	if !ok {
		return xerrors.NotFound("Invitation not found.")
	}
	if inv.Status != domain.InvitationPending {
		return xerrors.Conflict("Invitation is not pending.")
	}
	inv.Token = token
	inv.TokenExpiresAt = expiresAt
	inv.UpdatedAt = now
	s.invitations[id] = inv
	return nil
}

// ---- medications & reminders ----

func (s *MemoryStore) CreateMedication(_ context.Context, m domain.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.medications[m.ID] = m
	return nil
}

func (s *MemoryStore) FindMedicationByID(_ context.Context, id string) (domain.Medication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.medications[id]
	if !ok {
		return domain.Medication{}, xerrors.NotFound("Medication not found.")
	}
	return m, nil
}

func (s *MemoryStore) ListMedications(_ context.Context, householdID string) ([]domain.Medication, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Medication
	for _, m := range s.medications {
		if m.HouseholdID == householdID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateMedication(_ context.Context, m domain.Medication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.medications[m.ID]; !ok {
		return xerrors.NotFound("Medication not found.")
	}
	s.medications[m.ID] = m
	return nil
}

func (s *MemoryStore) DeleteMedication(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.medications[id]; !ok {
		return xerrors.NotFound("Medication not found.")
	}
	delete(s.medications, id)
	for rid, r := range s.reminders {
		if r.MedicationID == id {
			delete(s.reminders, rid)
		}
	}
	return nil
}

func (s *MemoryStore) CreateReminder(_ context.Context, r domain.MedicationReminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reminders[r.ID] = r
	return nil
}

func (s *MemoryStore) FindReminderByID(_ context.Context, id string) (domain.MedicationReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.reminders[id]
	if !ok {
		return domain.MedicationReminder{}, xerrors.NotFound("Reminder not found.")
	}
	return r, nil
}

func (s *MemoryStore) ListReminders(_ context.Context, medicationID string) ([]domain.MedicationReminder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.MedicationReminder
	for _, r := range s.reminders {
		if r.MedicationID == medicationID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *MemoryStore) UpdateReminder(_ context.Context, r domain.MedicationReminder) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[r.ID]; !ok {
		return xerrors.NotFound("Reminder not found.")
	}
	s.reminders[r.ID] = r
	return nil
}

func (s *MemoryStore) DeleteReminder(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.reminders[id]; !ok {
		return xerrors.NotFound("Reminder not found.")
	}
	delete(s.reminders, id)
	return nil
}

// ---- audit ----

func (s *MemoryStore) LogAuditEvent(_ context.Context, event domain.AuditEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auditEvents = append(s.auditEvents, event)
	return nil
}

// AuditEvents returns a copy of the recorded events, oldest first.
func (s *MemoryStore) AuditEvents() []domain.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AuditEvent, len(s.auditEvents))
	copy(out, s.auditEvents)
	return out
}
