// Package ecs 最小化的实体-组件存储
//
// 实体只是一个 ID；组件按具体类型存放，系统通过类型查询实体。
// 所有查询结果按实体 ID 升序返回，绘制顺序与创建顺序一致。
package ecs

import (
	"reflect"
	"sort"
)

// EntityID 是实体的唯一标识符
type EntityID uint64

// EntityManager 管理所有实体和组件
type EntityManager struct {
	nextID uint64
	// 实体-组件映射: EntityID -> ComponentType -> Component实例
	components map[EntityID]map[reflect.Type]interface{}
	// 待删除的实体ID列表
	entitiesToDestroy []EntityID
	// 实体真正被删除前调用，组件仍可读取
	destroyHooks []func(id EntityID)
}

// NewEntityManager 创建一个新的 EntityManager 实例
func NewEntityManager() *EntityManager {
	return &EntityManager{
		nextID:     1, // 0 保留为无效ID
		components: make(map[EntityID]map[reflect.Type]interface{}),
	}
}

// CreateEntity 创建新实体并返回唯一ID
func (em *EntityManager) CreateEntity() EntityID {
	id := EntityID(em.nextID)
	em.nextID++
	em.components[id] = make(map[reflect.Type]interface{})
	return id
}

// Exists 实体是否存在（已标记删除但尚未清理的实体仍然存在）
func (em *EntityManager) Exists(id EntityID) bool {
	_, ok := em.components[id]
	return ok
}

// EntityCount 当前实体数量
func (em *EntityManager) EntityCount() int {
	return len(em.components)
}

// DestroyEntity 标记实体待删除，在 RemoveMarkedEntities 时真正删除
func (em *EntityManager) DestroyEntity(id EntityID) {
	for _, marked := range em.entitiesToDestroy {
		if marked == id {
			return
		}
	}
	em.entitiesToDestroy = append(em.entitiesToDestroy, id)
}

// OnDestroy 注册删除回调
// 系统用它释放组件持有的资源（计时器、订阅等）
func (em *EntityManager) OnDestroy(hook func(id EntityID)) {
	em.destroyHooks = append(em.destroyHooks, hook)
}

// AddComponent 为实体添加组件，同类型组件会被替换
func (em *EntityManager) AddComponent(id EntityID, component interface{}) {
	if compMap, exists := em.components[id]; exists {
		compMap[reflect.TypeOf(component)] = component
	}
}

// RemoveComponent 从实体移除指定类型的组件
func (em *EntityManager) RemoveComponent(id EntityID, componentType reflect.Type) {
	if compMap, exists := em.components[id]; exists {
		delete(compMap, componentType)
	}
}

// GetComponent 获取实体的特定类型组件
func (em *EntityManager) GetComponent(id EntityID, componentType reflect.Type) (interface{}, bool) {
	if compMap, exists := em.components[id]; exists {
		comp, found := compMap[componentType]
		return comp, found
	}
	return nil, false
}

// HasComponent 检查实体是否拥有特定类型组件
func (em *EntityManager) HasComponent(id EntityID, componentType reflect.Type) bool {
	_, found := em.GetComponent(id, componentType)
	return found
}

// RemoveMarkedEntities 清理所有标记删除的实体
func (em *EntityManager) RemoveMarkedEntities() {
	if len(em.entitiesToDestroy) == 0 {
		return
	}
	// 回调中可能再次标记删除，先取出当前批次
	batch := em.entitiesToDestroy
	em.entitiesToDestroy = nil
	for _, id := range batch {
		if !em.Exists(id) {
			continue
		}
		for _, hook := range em.destroyHooks {
			hook(id)
		}
		delete(em.components, id)
	}
}

// GetEntitiesWith 查询拥有指定组件类型组合的所有实体
// 参数: componentTypes ...reflect.Type - 需要的组件类型列表
// 返回: []EntityID - 满足条件的实体ID列表（升序）
func (em *EntityManager) GetEntitiesWith(componentTypes ...reflect.Type) []EntityID {
	result := make([]EntityID, 0)

	for id, compMap := range em.components {
		hasAll := true
		for _, ct := range componentTypes {
			if _, found := compMap[ct]; !found {
				hasAll = false
				break
			}
		}
		if hasAll {
			result = append(result, id)
		}
	}

	sortIDs(result)
	return result
}

func sortIDs(ids []EntityID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
