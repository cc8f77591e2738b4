package sqlinline

const QInsertProject = `--sql 69b3262e-0a35-49c2-9b10-12042205f30b
insert into projects(
  id,
  title,
  description,
  company_service,
  status,
  has_custom_character,
  character_url
)
values (gen_random_uuid(), $1, $2, $3, 'pending', $4, $5)
returning id, created_at, updated_at;
`

const QListProjects = `--sql a9f2cebf-c3ed-4a18-aad4-d3481bdb37ed
select
  id, title, description, company_service, status,
  has_custom_character, character_url,
  scene_1_img, scene_1_vid, scene_2_img, scene_2_vid,
  webhook_response, error_message,
  created_at, updated_at
from projects
order by created_at desc;
`

const QGetProject = `--sql 464b530a-906f-457c-acfb-155f91777d89
select
  id, title, description, company_service, status,
  has_custom_character, character_url,
  scene_1_img, scene_1_vid, scene_2_img, scene_2_vid,
  webhook_response, error_message,
  created_at, updated_at
from projects
where id = $1;
`

const QDeleteProject = `--sql 8b78fef2-a8d1-45ed-aa7a-96e1f2b8cea9
delete from projects
where id = $1
returning id;
`

const QClaimProjectJob = `--sql a0005b17-c72e-4806-83e1-622e51666ff7
with next_job as (
    select id
    from projects
    where status = 'pending'
    order by created_at asc
    for update skip locked
    limit 1
),
updated as (
    update projects
    set status = 'processing', updated_at = now()
    where id in (select id from next_job)
    returning id, title, description, company_service, has_custom_character, character_url
)
select * from updated;
`

const QCompleteProject = `--sql 2ce56fc3-7fa1-4cee-80c8-a0d26425d775
update projects
set status = 'completed',
    scene_1_img = $2,
    scene_1_vid = $3,
    scene_2_img = $4,
    scene_2_vid = $5,
    webhook_response = $6,
    error_message = '',
    updated_at = now()
where id = $1;
`

const QFailProject = `--sql d611b7af-dd77-48a3-8d3e-8380740f2148
update projects
set status = 'failed',
    error_message = $2,
    updated_at = now()
where id = $1;
`

const QRequeueFailedProject = `--sql 537b5ee8-be6b-467b-a2b7-c1d0155d1482
update projects
set status = 'pending',
    error_message = '',
    updated_at = now()
where id = $1
  and status = 'failed'
returning id, title;
`

const QReapStaleProjects = `--sql d2841632-0cd3-4cca-a432-5047f1bf4ae4
update projects
set status = 'failed',
    error_message = 'video generation timed out',
    updated_at = now()
where status = 'processing'
  and updated_at < now() - interval '30 minutes';
`
