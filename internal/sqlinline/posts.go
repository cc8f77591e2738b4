package sqlinline

const QInsertPost = `--sql 0853acfd-6076-47bf-8da4-e0f5ad071e96
insert into insta_posts(
  id,
  keyword,
  mode,
  status,
  primary_hex,
  secondary_hex,
  concept,
  concept_warning,
  title,
  subtitle,
  address_line,
  final_prompt,
  logo_url,
  character_url,
  position,
  experience,
  openings,
  location
)
values (
  gen_random_uuid(),
  $1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
)
returning id, created_at, updated_at;
`

const QListPosts = `--sql 743e78a3-07e4-4e8b-bbce-ffc16279cd26
select
  id, keyword, mode, status,
  primary_hex, secondary_hex,
  concept, concept_warning,
  title, subtitle, address_line,
  final_prompt, logo_url, character_url,
  position, experience, openings, location,
  image_urls, error_message,
  created_at, updated_at
from insta_posts
order by created_at desc;
`

const QGetPost = `--sql 33ef0e90-27f6-418b-a2de-88c4852e833e
select
  id, keyword, mode, status,
  primary_hex, secondary_hex,
  concept, concept_warning,
  title, subtitle, address_line,
  final_prompt, logo_url, character_url,
  position, experience, openings, location,
  image_urls, error_message,
  created_at, updated_at
from insta_posts
where id = $1;
`

const QDeletePost = `--sql 0bc704a1-30ec-4c02-9fa3-cc09cc6986e1
delete from insta_posts
where id = $1
returning id;
`

const QQueuePostImage = `--sql fdf9b8a8-aa56-4279-bb27-63d92770b6eb
update insta_posts
set status = 'pending',
    final_prompt = coalesce(nullif($2, ''), final_prompt),
    error_message = '',
    updated_at = now()
where id = $1
  and status in ('pending_image', 'completed', 'failed')
returning id;
`

const QSavePostImages = `--sql fee76fd7-84a3-4ba9-b72c-aa9738dae636
update insta_posts
set image_urls = $2,
    status = 'completed',
    updated_at = now()
where id = $1
returning id;
`

const QClaimPostImageJob = `--sql 8a26aebb-b85a-4e7b-a1ce-a0039118e488
with next_job as (
    select id
    from insta_posts
    where status = 'pending'
    order by updated_at asc
    for update skip locked
    limit 1
),
updated as (
    update insta_posts
    set status = 'processing', updated_at = now()
    where id in (select id from next_job)
    returning id, final_prompt, logo_url, character_url
)
select * from updated;
`

const QCompletePostImage = `--sql 3b2333ee-f2d0-419e-b7cc-1767a4663148
update insta_posts
set status = 'completed',
    image_urls = $2,
    error_message = '',
    updated_at = now()
where id = $1;
`

const QFailPostImage = `--sql 16678bf2-c990-4c1c-b8da-ea496d98e4a2
update insta_posts
set status = 'failed',
    error_message = $2,
    updated_at = now()
where id = $1;
`

const QRequeueFailedPost = `--sql 670c7f02-dd01-47d2-a4b7-2f936d9c2609
update insta_posts
set status = 'pending',
    error_message = '',
    updated_at = now()
where id = $1
  and status = 'failed'
returning id, keyword;
`

const QReapStalePosts = `--sql bbde394a-10c1-4a61-9c9c-ef096f668d13
update insta_posts
set status = 'failed',
    error_message = 'image generation timed out',
    updated_at = now()
where status = 'processing'
  and updated_at < now() - interval '30 minutes';
`
