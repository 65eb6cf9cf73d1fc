package render

import (
	"github.com/trebuchet-org/registrar/internal/domain/models"
	"github.com/trebuchet-org/registrar/internal/scheduler"
	"github.com/trebuchet-org/registrar/internal/usecase"
)

// JSON views keep error values printable

type DeployJSON struct {
	Record           *models.DeploymentRecord `json:"record"`
	MetadataLocation string                   `json:"metadataLocation"`
	ArtifactUpdated  bool                     `json:"artifactUpdated"`
	MetadataError    string                   `json:"metadataError,omitempty"`
	ArtifactError    string                   `json:"artifactError,omitempty"`
}

func NewDeployJSON(r *usecase.DeployContractResult) DeployJSON {
	return DeployJSON{
		Record:           r.Record,
		MetadataLocation: r.MetadataLocation,
		ArtifactUpdated:  r.ArtifactUpdated,
		MetadataError:    errString(r.MetadataErr),
		ArtifactError:    errString(r.ArtifactErr),
	}
}

type ShowJSON struct {
	Record     *models.DeploymentRecord `json:"record"`
	Source     string                   `json:"source"`
	Methods    []string                 `json:"methods"`
	Events     []string                 `json:"events"`
	Owner      string                   `json:"owner,omitempty"`
	OwnerError string                   `json:"ownerError,omitempty"`
}

func NewShowJSON(r *usecase.ShowDeploymentResult) ShowJSON {
	out := ShowJSON{
		Record:     r.Record,
		Source:     string(r.Source),
		Methods:    r.Methods,
		Events:     r.Events,
		OwnerError: errString(r.OwnerErr),
	}
	if r.Owner != nil {
		out.Owner = r.Owner.Hex()
	}
	return out
}

type TxJSON struct {
	Tx    *models.TxResult `json:"tx"`
	From  string           `json:"from"`
	User  string           `json:"user,omitempty"`
	Name  string           `json:"name,omitempty"`
	Age   string           `json:"age,omitempty"`
	Value string           `json:"value,omitempty"`
}

func NewRegisterJSON(r *usecase.RegisterUserResult) TxJSON {
	return TxJSON{
		Tx:   r.Tx,
		From: r.Owner.Hex(),
		User: r.User.Hex(),
		Name: r.Name,
		Age:  r.Age.String(),
	}
}

func NewSendJSON(r *usecase.SendValueResult) TxJSON {
	return TxJSON{
		Tx:    r.Tx,
		From:  r.From.Hex(),
		Value: r.Value.String(),
	}
}

type IntervalJSON struct {
	Stats       scheduler.Stats `json:"stats"`
	Interrupted int64           `json:"interrupted"`
	LastError   string          `json:"lastError,omitempty"`
}

func NewIntervalJSON(r *usecase.SendIntervalResult) IntervalJSON {
	return IntervalJSON{Stats: r.Stats, Interrupted: r.Interrupted, LastError: errString(r.LastErr)}
}

type NetworkJSON struct {
	Name    string `json:"name"`
	ChainID uint64 `json:"chainId,omitempty"`
	RPCURL  string `json:"rpcUrl,omitempty"`
	Current bool   `json:"current,omitempty"`
	Error   string `json:"error,omitempty"`
}

func NewNetworksJSON(r *usecase.ListNetworksResult) []NetworkJSON {
	out := make([]NetworkJSON, 0, len(r.Networks))
	for _, n := range r.Networks {
		out = append(out, NetworkJSON{
			Name:    n.Name,
			ChainID: n.ChainID,
			RPCURL:  n.RPCURL,
			Current: n.Name == r.Current,
			Error:   errString(n.Error),
		})
	}
	return out
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
