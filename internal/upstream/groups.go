package upstream

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/javiermolinar/madvognen/internal/dateutil"
)

// Group is a selectable customer group.
type Group struct {
	ID   int
	Name string
}

// ListGroups returns the customer groups offered by the group-list endpoint,
// in the order the service returns them. Entries without an id are skipped.
func (c *Client) ListGroups(ctx context.Context) ([]Group, error) {
	if c.groupsURL == "" {
		return nil, fmt.Errorf("groups url: %w", ErrNotConfigured)
	}

	s := c.OpenSession()
	defer func() { _ = s.Close() }()

	body, err := s.get(ctx, c.groupsURL)
	if err != nil {
		return nil, err
	}
	return parseGroups(body)
}

func parseGroups(body []byte) ([]Group, error) {
	if !gjson.ValidBytes(body) {
		return nil, invalidData("malformed JSON")
	}
	list, ok := listOf(gjson.ParseBytes(body), groupListAliases)
	if !ok {
		return nil, invalidData("group list is not an array")
	}

	groups := make([]Group, 0, len(list.Array()))
	for _, entry := range list.Array() {
		id := lookup(entry, groupIDAliases)
		if !id.Exists() || id.Int() == 0 {
			continue
		}
		name := lookupString(entry, groupNameAliases)
		if name == "" {
			name = fmt.Sprintf("Group %d", id.Int())
		}
		groups = append(groups, Group{ID: int(id.Int()), Name: name})
	}
	return groups, nil
}

// ProbeGroup checks that the menu endpoint answers for groupID on the day of
// now. The service must return 200 and an object carrying menu sections.
// ErrUnknownGroup is returned when the payload has no sections.
func (c *Client) ProbeGroup(ctx context.Context, groupID int, now time.Time) error {
	reqURL, err := c.MenuRequestURL(groupID, dateutil.TruncateToDay(now.In(c.loc)))
	if err != nil {
		return err
	}

	s := c.OpenSession()
	defer func() { _ = s.Close() }()

	body, err := s.get(ctx, reqURL)
	if err != nil {
		return err
	}
	if !gjson.ValidBytes(body) {
		return invalidData("malformed JSON")
	}
	doc := gjson.ParseBytes(body)
	if !doc.IsObject() || !lookup(doc, menuSectionAliases).Exists() {
		c.log.Info("group probe rejected", zap.Int("group_id", groupID))
		return fmt.Errorf("group %d: %w", groupID, ErrUnknownGroup)
	}
	return nil
}

// IsUnknownGroup reports whether err came from a rejected group probe.
func IsUnknownGroup(err error) bool {
	return errors.Is(err, ErrUnknownGroup)
}
