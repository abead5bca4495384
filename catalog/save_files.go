package catalog

import "github.com/lcx/clusterlink/net"

var saveShape = schemaObj(map[string]*schemaT{
	"name":     str(),
	"size":     integer(),
	"modified": str(),
}, "name", "size")

// SaveFiles groups the per-instance save-file management requests and the
// subscription that tracks changes to an instance's save list.
type SaveFiles struct {
	List     *net.Request
	Subscribe *net.Request
	Create   *net.Request
	Rename   *net.Request
	Copy     *net.Request
	Delete   *net.Request
	Download *net.Request
	Transfer *net.Request
	Pull     *net.Request
	Push     *net.Request
}

func buildSaveFiles(r *net.Registry) SaveFiles {
	return SaveFiles{
		List: req(r, net.RequestSpec{
			Type:           "list_saves",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.save.read",
			RequestSchema:  empty(),
			ResponseSchema: schemaObj(map[string]*schemaT{"list": arrayOf(saveShape)}, "list"),
		}),
		Subscribe: req(r, net.RequestSpec{
			Type:           "subscribe_save_list",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.save.read",
			RequestSchema:  empty(),
			ResponseSchema: empty(),
		}),
		Create: req(r, net.RequestSpec{
			Type:           "create_save",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.save.write",
			RequestSchema:  schemaObj(map[string]*schemaT{"name": str()}, "name"),
			ResponseSchema: schemaObj(map[string]*schemaT{"save": saveShape}, "save"),
		}),
		Rename: req(r, net.RequestSpec{
			Type:       "rename_save",
			Links:      instanceForwardLinks,
			ForwardTo:  net.ForwardInstance,
			Permission: "core.save.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"name":     str(),
				"new_name": str(),
			}, "name", "new_name"),
			ResponseSchema: empty(),
		}),
		Copy: req(r, net.RequestSpec{
			Type:       "copy_save",
			Links:      instanceForwardLinks,
			ForwardTo:  net.ForwardInstance,
			Permission: "core.save.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"name":     str(),
				"new_name": str(),
			}, "name", "new_name"),
			ResponseSchema: schemaObj(map[string]*schemaT{"save": saveShape}, "save"),
		}),
		Delete: req(r, net.RequestSpec{
			Type:           "delete_save",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.save.write",
			RequestSchema:  schemaObj(map[string]*schemaT{"name": str()}, "name"),
			ResponseSchema: empty(),
		}),
		Download: req(r, net.RequestSpec{
			Type:           "download_save",
			Links:          instanceForwardLinks,
			ForwardTo:      net.ForwardInstance,
			Permission:     "core.save.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"name": str()}, "name"),
			ResponseSchema: schemaObj(map[string]*schemaT{"url": str()}, "url"),
		}),
		Transfer: req(r, net.RequestSpec{
			Type:       "transfer_save",
			Links:      instanceForwardLinks,
			ForwardTo:  net.ForwardInstance,
			Permission: "core.save.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"name":            str(),
				"dest_instance_id": integer(),
			}, "name", "dest_instance_id"),
			ResponseSchema: empty(),
		}),
		Pull: req(r, net.RequestSpec{
			Type:       "pull_save",
			Links:      instanceForwardLinks,
			ForwardTo:  net.ForwardInstance,
			Permission: "core.save.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"url":  str(),
				"name": str(),
			}, "url", "name"),
			ResponseSchema: schemaObj(map[string]*schemaT{"save": saveShape}, "save"),
		}),
		Push: req(r, net.RequestSpec{
			Type:       "push_save",
			Links:      instanceForwardLinks,
			ForwardTo:  net.ForwardInstance,
			Permission: "core.save.read",
			RequestSchema: schemaObj(map[string]*schemaT{
				"name": str(),
				"url":  str(),
			}, "name", "url"),
			ResponseSchema: empty(),
		}),
	}
}
