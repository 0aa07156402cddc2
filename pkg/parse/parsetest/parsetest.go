// Package parsetest provides a small command grammar for tests.
package parsetest

import (
	"src.mcfn.dev/pkg/must"
	"src.mcfn.dev/pkg/schema"
)

// CommandsJSON is a commands.json document covering every builtin argument
// type, a redirect and an argument with an unknown parser.
const CommandsJSON = `{
  "type": "root",
  "children": {
    "gamemode": {
      "type": "literal",
      "children": {
        "survival": {"type": "literal", "executable": true},
        "creative": {"type": "literal", "executable": true},
        "adventure": {"type": "literal", "executable": true},
        "spectator": {"type": "literal", "executable": true}
      }
    },
    "gamerule": {
      "type": "literal",
      "children": {
        "keepInventory": {
          "type": "literal",
          "children": {
            "value": {"type": "argument", "parser": "brigadier:bool", "executable": true}
          }
        },
        "maxCommandChainLength": {
          "type": "literal",
          "children": {
            "value": {
              "type": "argument", "parser": "brigadier:integer",
              "properties": {"min": 0}, "executable": true
            }
          }
        }
      }
    },
    "weather": {
      "type": "literal",
      "children": {
        "clear": {
          "type": "literal", "executable": true,
          "children": {
            "duration": {
              "type": "argument", "parser": "brigadier:integer",
              "properties": {"min": 0, "max": 1000000}, "executable": true
            }
          }
        }
      }
    },
    "spreadplayers": {
      "type": "literal",
      "children": {
        "center": {
          "type": "argument", "parser": "minecraft:vec2",
          "children": {
            "spreadDistance": {
              "type": "argument", "parser": "brigadier:float",
              "properties": {"min": 0}, "executable": true
            }
          }
        }
      }
    },
    "worldborder": {
      "type": "literal",
      "children": {
        "set": {
          "type": "literal",
          "children": {
            "distance": {
              "type": "argument", "parser": "brigadier:double",
              "properties": {"min": 1, "max": 59999968}, "executable": true
            }
          }
        }
      }
    },
    "seed": {
      "type": "literal",
      "children": {
        "value": {"type": "argument", "parser": "brigadier:long", "executable": true}
      }
    },
    "say": {
      "type": "literal",
      "children": {
        "message": {"type": "argument", "parser": "minecraft:message", "executable": true}
      }
    },
    "echo": {
      "type": "literal",
      "children": {
        "text": {
          "type": "argument", "parser": "brigadier:string",
          "properties": {"type": "phrase"}, "executable": true
        }
      }
    },
    "tp": {
      "type": "literal",
      "children": {
        "destination": {"type": "argument", "parser": "minecraft:vec3", "executable": true}
      }
    },
    "setblock": {
      "type": "literal",
      "children": {
        "pos": {
          "type": "argument", "parser": "minecraft:block_pos",
          "children": {
            "block": {"type": "argument", "parser": "minecraft:resource_location", "executable": true}
          }
        }
      }
    },
    "function": {
      "type": "literal",
      "children": {
        "name": {"type": "argument", "parser": "minecraft:function", "executable": true}
      }
    },
    "time": {
      "type": "literal",
      "children": {
        "set": {
          "type": "literal",
          "children": {
            "day": {"type": "literal", "executable": true},
            "time": {"type": "argument", "parser": "minecraft:time", "executable": true}
          }
        }
      }
    },
    "team": {
      "type": "literal",
      "children": {
        "modify": {
          "type": "literal",
          "children": {
            "team": {
              "type": "argument", "parser": "minecraft:team",
              "children": {
                "color": {
                  "type": "literal",
                  "children": {
                    "value": {"type": "argument", "parser": "minecraft:color", "executable": true}
                  }
                }
              }
            }
          }
        }
      }
    },
    "attribute": {
      "type": "literal",
      "children": {
        "modifier": {
          "type": "argument", "parser": "minecraft:uuid", "executable": true
        }
      }
    },
    "kill": {
      "type": "literal", "executable": true,
      "children": {
        "targets": {"type": "argument", "parser": "minecraft:entity", "executable": true}
      }
    },
    "execute": {
      "type": "literal",
      "children": {
        "align": {
          "type": "literal",
          "children": {
            "axes": {
              "type": "argument", "parser": "minecraft:swizzle",
              "redirect": ["execute"]
            }
          }
        },
        "run": {"type": "literal", "redirect": []}
      }
    }
  }
}`

// Schema returns the parsed CommandsJSON.
func Schema() *schema.Schema {
	return must.OK1(schema.Parse("commands.json", []byte(CommandsJSON)))
}
