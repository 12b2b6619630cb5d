// Package constant defines immutable application-level identifiers and configuration defaults.
package constant

// DistanceFn is the global function a Lua distance script must define.
const DistanceFn = "distance"

// DistanceTemplate is a Go text/template for scaffolding new Lua distance scripts.
const DistanceTemplate = `{{ $divider := repeat "-" (plus (len .Name) 16) }}{{ $divider }}
-- @name    {{ .Name }}
-- @author  {{ .Author }}
{{ $divider }}

---@alias item { id: string, type: string, index: number, cursor: number }

--- Returns the priority cost of keeping an item resident in the pool.
--- Lower values are kept longer; the item with the highest value is evicted first.
---@param item item
---@return number
function distance(item)
  return math.abs(item.index - item.cursor)
end
`
