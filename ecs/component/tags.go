package component

type AgentTag struct{}

var AgentTagComponent = NewComponent[AgentTag]()

type CharacterTag struct{}

var CharacterTagComponent = NewComponent[CharacterTag]()

type ObstacleTag struct{}

var ObstacleTagComponent = NewComponent[ObstacleTag]()

// Disabled marks an entity as removed from play without destroying it.
// Perception treats disabled targets as absent.
type Disabled struct{}

var DisabledComponent = NewComponent[Disabled]()
