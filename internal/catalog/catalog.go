// LocalRailwayServerForTheGame - Fish Tank Event Hub
// Copyright 2026 JawdatTayfourAKAJay
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/JawdatTayfourAKAJay/LocalRailwayServerForTheGame

// Package catalog is the fixed vocabulary of game commands: their codes, display
// names and point costs, the channel-point reward ids that trigger them, and the
// health granted to a subscriber's fish per subscription tier.
//
// A Catalog is immutable after New and safe for concurrent use.
package catalog

import (
	"fmt"
	"sort"
)

// Command codes understood by the game.
const (
	FeedMyFish       = 1
	FeedSpecificFish = 2
	CleanTank        = 3
	ProgressTank     = 4
	FeedAllFish      = 5
	SpawnFish        = 6
	PowerUpMyFish    = 7
	ChangeMyFish     = 8
)

// Command is one entry of the catalog.
type Command struct {
	Code int    `json:"id"`
	Name string `json:"name"`
	Cost int    `json:"cost"`
}

// DefaultCommands is the built-in command table.
var DefaultCommands = []Command{
	{FeedMyFish, "Feed My Fish", 100},
	{FeedSpecificFish, "Feed A Fish", 100},
	{CleanTank, "Clean Tank", 50},
	{ProgressTank, "Progress Tank", 100},
	{FeedAllFish, "Feed All Fish", 250},
	{SpawnFish, "Spawn My Fish", 2500},
	{PowerUpMyFish, "Power Up My Fish", 500},
	{ChangeMyFish, "Change My Fish", 300},
}

// DefaultRewards maps the channel's custom reward ids to command codes.
var DefaultRewards = map[string]int{
	"08f530ad-0b8e-43fa-91da-05861241db81": CleanTank,
	"21b5323c-18d6-4803-85eb-8ab6acf3a271": FeedSpecificFish,
	"301390c0-79da-45a1-a4fb-f15940565833": ProgressTank,
	"7d48717b-f8cf-42a3-ab07-f17111e07d63": FeedAllFish,
	"7f9b79f4-6492-4ae6-af0c-195c8da6670e": PowerUpMyFish,
	"e785a1c1-4e7c-4b07-afc3-c7b717e23a41": SpawnFish,
	"f2d2e625-97a1-42db-8bb0-7ce385599ada": ChangeMyFish,
	"f7a729bd-8c96-4d02-9239-df4af21621f2": FeedMyFish,
}

// Subscription tiers as sent by Twitch.
const (
	Tier1 = "1000"
	Tier2 = "2000"
	Tier3 = "3000"
)

// DefaultSubscriptionHP is granted for tiers missing from the table.
const DefaultSubscriptionHP = 100

var subscriptionHP = map[string]int{
	Tier1: 100,
	Tier2: 150,
	Tier3: 200,
}

var tierNames = map[string]string{
	Tier1: "Tier 1",
	Tier2: "Tier 2",
	Tier3: "Tier 3",
}

// Catalog answers command and reward lookups.
type Catalog struct {
	commands map[int]Command
	rewards  map[string]int
	ordered  []Command
}

// New builds the default catalog with reward overrides applied on top of
// DefaultRewards. An override naming a code outside the command table is an error.
func New(rewardOverrides map[string]int) (*Catalog, error) {
	c := &Catalog{
		commands: make(map[int]Command, len(DefaultCommands)),
		rewards:  make(map[string]int, len(DefaultRewards)+len(rewardOverrides)),
	}
	for _, cmd := range DefaultCommands {
		c.commands[cmd.Code] = cmd
	}
	for id, code := range DefaultRewards {
		c.rewards[id] = code
	}
	for id, code := range rewardOverrides {
		if _, ok := c.commands[code]; !ok {
			return nil, fmt.Errorf("reward %s maps to unknown command code %d", id, code)
		}
		c.rewards[id] = code
	}

	c.ordered = make([]Command, 0, len(c.commands))
	for _, cmd := range c.commands {
		c.ordered = append(c.ordered, cmd)
	}
	sort.Slice(c.ordered, func(i, j int) bool { return c.ordered[i].Code < c.ordered[j].Code })
	return c, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	c, err := New(nil)
	if err != nil {
		panic(err) // the built-in tables are consistent
	}
	return c
}

// CostOf returns the point cost of code, or 0 for an unknown code.
func (c *Catalog) CostOf(code int) int {
	return c.commands[code].Cost
}

// Lookup returns the command for code.
func (c *Catalog) Lookup(code int) (Command, bool) {
	cmd, ok := c.commands[code]
	return cmd, ok
}

// CommandForReward maps a channel-point reward id to a command code.
func (c *Catalog) CommandForReward(rewardID string) (int, bool) {
	code, ok := c.rewards[rewardID]
	return code, ok
}

// Commands lists every command ordered by code. The slice is a copy.
func (c *Catalog) Commands() []Command {
	out := make([]Command, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// RewardCount returns the number of mapped reward ids.
func (c *Catalog) RewardCount() int {
	return len(c.rewards)
}

// SubscriptionHP returns the starting health for a subscriber fish.
func SubscriptionHP(tier string) int {
	if hp, ok := subscriptionHP[tier]; ok {
		return hp
	}
	return DefaultSubscriptionHP
}

// TierName returns a display name for tier, defaulting to "Tier 1".
func TierName(tier string) string {
	if name, ok := tierNames[tier]; ok {
		return name
	}
	return tierNames[Tier1]
}
