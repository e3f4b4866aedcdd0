package config

// defaultYAML is the built-in hunt configuration. The frame counts come
// from timing the US build: 1-frame directional holds turn in place
// without stepping, 5-frame holds are reliable button presses.
const defaultYAML = `
owner:
  trainer_id: 56078
  secret_id: 24723

locations:
  starter-treecko:
    name: Starter lab (Treecko)
    method: reset
    species: [Treecko]
    selection:
      dialogue_presses: 20
      dialogue_delay_frames: 15
      menu_wait_frames: 30
      direction: left
      direction_presses: 1
      confirm_presses: 6
      confirm_delay_frames: 15
      retry_presses: 8

  starter-torchic:
    name: Starter lab (Torchic)
    method: reset
    species: [Torchic]
    selection:
      dialogue_presses: 26
      dialogue_delay_frames: 15
      menu_wait_frames: 30
      confirm_presses: 0
      confirm_delay_frames: 15
      retry_presses: 8

  starter-mudkip:
    name: Starter lab (Mudkip)
    method: reset
    species: [Mudkip]
    selection:
      dialogue_presses: 20
      dialogue_delay_frames: 15
      menu_wait_frames: 30
      direction: right
      direction_presses: 1
      confirm_presses: 6
      confirm_delay_frames: 15
      retry_presses: 8

  route-101:
    name: Route 101
    method: flee
    species: [Poochyena, Zigzagoon, Wurmple]
    encounter: &grass
      loading_presses: 15
      loading_delay_frames: 20
      turn_hold_frames: 1
      turn_wait_frames: 20
      max_turns: 1000

  route-102:
    name: Route 102
    method: flee
    species: [Poochyena, Zigzagoon, Wurmple, Ralts, Seedot, Lotad]
    encounter: *grass

  route-116:
    name: Route 116
    method: flee
    species: [Poochyena, Whismur, Nincada, Abra, Taillow, Skitty]
    encounter: *grass

  petalburg-woods:
    name: Petalburg Woods
    method: flee
    species: [Poochyena, Wurmple, Silcoon, Cascoon, Taillow, Shroomish, Slakoth]
    encounter: *grass

  granite-cave:
    name: Granite Cave
    method: flee
    species: [Zubat, Makuhita, Abra, Geodude, Aron, Sableye, Mawile]
    encounter: *grass
`
