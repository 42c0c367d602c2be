package move

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/stockmasterhq/stockmaster-backend/pkg/enums"
)

// NewReference mints a ledger reference such as WH/IN/9F2C41A7. References are
// unique per move and survive renames of the endpoints.
func NewReference(moveType enums.MoveType) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:8])
	return fmt.Sprintf("WH/%s/%s", moveType.ReferencePrefix(), suffix)
}
