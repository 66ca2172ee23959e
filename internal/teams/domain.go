package teams

// Team groups users for team-scoped visibility. Members holds user ids; the
// visibility layer resolves them to emails when matching createdBy fields.
type Team struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Code      string   `json:"code"`
	ManagerID string   `json:"managerId,omitempty"`
	Members   []string `json:"members"`
}
