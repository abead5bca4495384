package catalog

import "github.com/lcx/clusterlink/net"

var modPackShape = schemaObj(map[string]*schemaT{
	"pack_id": str(),
	"name":    str(),
	"mods":    arrayOf(str()),
}, "pack_id", "name")

var modShape = schemaObj(map[string]*schemaT{
	"mod_id":  str(),
	"name":    str(),
	"version": str(),
}, "mod_id", "name", "version")

// ModPacks groups the controller-managed CRUD, search and subscription
// requests for mod packs (named bundles of mods) and individual mods. Mod
// storage is a controller-side resource, not an instance one, so none of
// these forward anywhere.
type ModPacks struct {
	ListPacks     *net.Request
	GetPack       *net.Request
	CreatePack    *net.Request
	UpdatePack    *net.Request
	DeletePack    *net.Request
	SearchPacks   *net.Request
	SubscribePacks *net.Request

	ListMods     *net.Request
	SearchMods   *net.Request
	DownloadMod  *net.Request
	DeleteMod    *net.Request
	SubscribeMods *net.Request
}

func buildModPacks(r *net.Registry) ModPacks {
	return ModPacks{
		ListPacks: req(r, net.RequestSpec{
			Type:           "list_mod_packs",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.modpack.read",
			RequestSchema:  empty(),
			ResponseSchema: schemaObj(map[string]*schemaT{"list": arrayOf(modPackShape)}, "list"),
		}),
		GetPack: req(r, net.RequestSpec{
			Type:           "get_mod_pack",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.modpack.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"pack_id": str()}, "pack_id"),
			ResponseSchema: schemaObj(map[string]*schemaT{"pack": modPackShape}, "pack"),
		}),
		CreatePack: req(r, net.RequestSpec{
			Type:       "create_mod_pack",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.modpack.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"name": str(),
				"mods": arrayOf(str()),
			}, "name"),
			ResponseSchema: schemaObj(map[string]*schemaT{"pack": modPackShape}, "pack"),
		}),
		UpdatePack: req(r, net.RequestSpec{
			Type:       "update_mod_pack",
			Links:      []net.LinkSpec{net.ControlController},
			Permission: "core.modpack.write",
			RequestSchema: schemaObj(map[string]*schemaT{
				"pack_id": str(),
				"name":    str(),
				"mods":    arrayOf(str()),
			}, "pack_id"),
			ResponseSchema: empty(),
		}),
		DeletePack: req(r, net.RequestSpec{
			Type:           "delete_mod_pack",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.modpack.write",
			RequestSchema:  schemaObj(map[string]*schemaT{"pack_id": str()}, "pack_id"),
			ResponseSchema: empty(),
		}),
		SearchPacks: req(r, net.RequestSpec{
			Type:           "search_mod_packs",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.modpack.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"query": str()}, "query"),
			ResponseSchema: schemaObj(map[string]*schemaT{"list": arrayOf(modPackShape)}, "list"),
		}),
		SubscribePacks: req(r, net.RequestSpec{
			Type:           "subscribe_mod_pack_updates",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.modpack.read",
			RequestSchema:  empty(),
			ResponseSchema: empty(),
		}),
		ListMods: req(r, net.RequestSpec{
			Type:           "list_mods",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.mod.read",
			RequestSchema:  empty(),
			ResponseSchema: schemaObj(map[string]*schemaT{"list": arrayOf(modShape)}, "list"),
		}),
		SearchMods: req(r, net.RequestSpec{
			Type:           "search_mods",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.mod.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"query": str()}, "query"),
			ResponseSchema: schemaObj(map[string]*schemaT{"list": arrayOf(modShape)}, "list"),
		}),
		DownloadMod: req(r, net.RequestSpec{
			Type:           "download_mod",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.mod.read",
			RequestSchema:  schemaObj(map[string]*schemaT{"mod_id": str()}, "mod_id"),
			ResponseSchema: schemaObj(map[string]*schemaT{"url": str()}, "url"),
		}),
		DeleteMod: req(r, net.RequestSpec{
			Type:           "delete_mod",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.mod.write",
			RequestSchema:  schemaObj(map[string]*schemaT{"mod_id": str()}, "mod_id"),
			ResponseSchema: empty(),
		}),
		SubscribeMods: req(r, net.RequestSpec{
			Type:           "subscribe_mod_updates",
			Links:          []net.LinkSpec{net.ControlController},
			Permission:     "core.mod.read",
			RequestSchema:  empty(),
			ResponseSchema: empty(),
		}),
	}
}
