package server

import (
	"encoding/json"

	kferrors "github.com/kinforge/kinforge/pkg/errors"
	"github.com/kinforge/kinforge/pkg/familytree"
)

// actionEnvelope is the wire form of a single action: a type tag plus a
// type-specific payload.
type actionEnvelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Action type tags accepted by the actions endpoint.
const (
	actionReplaceGraph    = "replaceGraph"
	actionUpsertPerson    = "upsertPerson"
	actionLinkParentChild = "linkParentChild"
	actionLinkSpouse      = "linkSpouse"
	actionSetRootPerson   = "setRootPerson"
	actionDeletePerson    = "deletePerson"
	actionReassignParents = "reassignParents"
)

// decodeAction turns an envelope into a domain action.
func decodeAction(env actionEnvelope) (familytree.Action, error) {
	switch env.Type {
	case actionReplaceGraph:
		var p struct {
			Graph familytree.TreeGraph `json:"graph"`
		}
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return familytree.ReplaceGraph{Graph: p.Graph}, nil

	case actionUpsertPerson:
		var p struct {
			Person familytree.Person `json:"person"`
		}
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return familytree.UpsertPerson{Person: p.Person}, nil

	case actionLinkParentChild:
		var p struct {
			ParentID string `json:"parentId"`
			ChildID  string `json:"childId"`
		}
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return familytree.LinkParentChild{ParentID: p.ParentID, ChildID: p.ChildID}, nil

	case actionLinkSpouse:
		var p struct {
			PersonID     string  `json:"personId"`
			SpouseID     string  `json:"spouseId"`
			MarriageDate *string `json:"marriageDate"`
			UnionID      string  `json:"unionId"`
		}
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return familytree.LinkSpouse{
			PersonID:     p.PersonID,
			SpouseID:     p.SpouseID,
			MarriageDate: p.MarriageDate,
			UnionID:      p.UnionID,
		}, nil

	case actionSetRootPerson:
		var p struct {
			RootID *string `json:"rootId"`
		}
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return familytree.SetRootPerson{RootID: p.RootID}, nil

	case actionDeletePerson:
		var p struct {
			PersonID string `json:"personId"`
		}
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return familytree.DeletePerson{PersonID: p.PersonID}, nil

	case actionReassignParents:
		var p struct {
			ChildID   string   `json:"childId"`
			ParentIDs []string `json:"parentIds"`
		}
		if err := decodePayload(env, &p); err != nil {
			return nil, err
		}
		return familytree.ReassignParents{ChildID: p.ChildID, ParentIDs: p.ParentIDs}, nil

	default:
		return nil, kferrors.New(kferrors.ErrCodeInvalidAction, "unknown action type %q", env.Type)
	}
}

func decodePayload(env actionEnvelope, v any) error {
	if len(env.Payload) == 0 {
		return kferrors.New(kferrors.ErrCodeInvalidAction, "action %q has no payload", env.Type)
	}
	if err := json.Unmarshal(env.Payload, v); err != nil {
		return kferrors.Wrap(kferrors.ErrCodeInvalidAction, err, "decode %q payload", env.Type)
	}
	return nil
}
